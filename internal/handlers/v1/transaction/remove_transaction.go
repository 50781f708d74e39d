package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
)

type RemoveTransactionOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

type transactionRemover interface {
	RemoveTransaction(ctx context.Context, userID, id uuid.UUID) error
}

// RemoveTransactionHandler handles DELETE /v1/transactions/{id}.
type RemoveTransactionHandler struct {
	TransactionService transactionRemover
}

func NewRemoveTransactionHandler(svc transactionRemover) *RemoveTransactionHandler {
	return &RemoveTransactionHandler{TransactionService: svc}
}

func (h *RemoveTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "remove-transaction",
		Method:        http.MethodDelete,
		Path:          "/v1/transactions/{id}",
		Summary:       "Remove transaction",
		Description:   "Deletes a ledger entry and reverses its goal effect.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *RemoveTransactionHandler) handle(ctx context.Context, input *TransactionIDInput) (*RemoveTransactionOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}

	if err := h.TransactionService.RemoveTransaction(ctx, userID, id); err != nil {
		return nil, common.Error(err, "failed to remove transaction")
	}
	return &RemoveTransactionOutput{Status: http.StatusNoContent}, nil
}
