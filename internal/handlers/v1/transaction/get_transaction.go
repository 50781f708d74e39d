package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/service"
)

// TransactionIDInput addresses one of the caller's transactions.
type TransactionIDInput struct {
	common.Identity
	ID string `path:"id" doc:"Transaction UUID"`
}

func (in *TransactionIDInput) parse() (userID, id uuid.UUID, err error) {
	if userID, err = in.Caller(); err != nil {
		return
	}
	id, err = common.ParseID(in.ID, "id")
	return
}

type transactionGetter interface {
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*service.Transaction, error)
}

// GetTransactionHandler handles GET /v1/transactions/{id}.
type GetTransactionHandler struct {
	TransactionService transactionGetter
}

func NewGetTransactionHandler(svc transactionGetter) *GetTransactionHandler {
	return &GetTransactionHandler{TransactionService: svc}
}

func (h *GetTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-transaction",
		Method:      http.MethodGet,
		Path:        "/v1/transactions/{id}",
		Summary:     "Get transaction",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *GetTransactionHandler) handle(ctx context.Context, input *TransactionIDInput) (*TransactionOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}

	found, err := h.TransactionService.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, common.Error(err, "failed to get transaction")
	}
	return &TransactionOutput{Body: toTransaction(found)}, nil
}
