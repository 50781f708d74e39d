package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/service"
	txstore "github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// AmendTransactionBody lists the fields to change. An empty goalID unlinks the goal.
type AmendTransactionBody struct {
	GoalID      *string `json:"goalID,omitempty" doc:"Goal UUID, empty string to unlink"`
	Amount      *int64  `json:"amount,omitempty" minimum:"1" doc:"Positive amount"`
	Type        *string `json:"type,omitempty" enum:"income,expense" doc:"income or expense"`
	Category    *string `json:"category,omitempty" minLength:"1" doc:"Category label"`
	Date        *string `json:"date,omitempty" doc:"RFC3339 transaction date"`
	Description *string `json:"description,omitempty" doc:"Free text"`
}

type AmendTransactionInput struct {
	TransactionIDInput
	Body AmendTransactionBody
}

type transactionAmender interface {
	AmendTransaction(ctx context.Context, userID, id uuid.UUID, patch service.TransactionPatch) (*service.Transaction, error)
}

// AmendTransactionHandler handles PATCH /v1/transactions/{id}.
type AmendTransactionHandler struct {
	TransactionService transactionAmender
}

func NewAmendTransactionHandler(svc transactionAmender) *AmendTransactionHandler {
	return &AmendTransactionHandler{TransactionService: svc}
}

func (h *AmendTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "amend-transaction",
		Method:      http.MethodPatch,
		Path:        "/v1/transactions/{id}",
		Summary:     "Amend transaction",
		Description: "Changes a ledger entry. The prior goal effect is reversed and the new one applied atomically.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func parseAmendTransactionBody(body *AmendTransactionBody) (service.TransactionPatch, error) {
	var patch service.TransactionPatch

	switch {
	case body.GoalID == nil:
	case *body.GoalID == "":
		patch.GoalID.Null()
	default:
		id, err := common.ParseID(*body.GoalID, "goalID")
		if err != nil {
			return patch, err
		}
		patch.GoalID.Set(id)
	}
	if body.Date != nil {
		date, err := common.ParseOptionalTime(*body.Date, "date")
		if err != nil {
			return patch, err
		}
		patch.Date = date
	}
	if body.Type != nil {
		txType := txstore.Type(*body.Type)
		patch.Type = &txType
	}
	patch.Amount = body.Amount
	patch.Category = body.Category
	patch.Description = body.Description
	return patch, nil
}

func (h *AmendTransactionHandler) handle(ctx context.Context, input *AmendTransactionInput) (*TransactionOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}
	patch, err := parseAmendTransactionBody(&input.Body)
	if err != nil {
		return nil, err
	}

	amended, err := h.TransactionService.AmendTransaction(ctx, userID, id, patch)
	if err != nil {
		return nil, common.Error(err, "failed to amend transaction")
	}
	return &TransactionOutput{Body: toTransaction(amended)}, nil
}
