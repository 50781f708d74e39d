package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
	txstore "github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	GoalID      string `json:"goalID,omitempty" doc:"Goal UUID to fund (income only)"`
	Amount      int64  `json:"amount" required:"true" minimum:"1" doc:"Positive amount"`
	Type        string `json:"type" required:"true" enum:"income,expense" doc:"income or expense"`
	Category    string `json:"category" required:"true" minLength:"1" doc:"Category label"`
	Date        string `json:"date,omitempty" doc:"RFC3339 transaction date, defaults to now"`
	Description string `json:"description,omitempty" doc:"Free text"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	common.Identity
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Status int `json:"status" doc:"HTTP status"`
	Body   Transaction
}

type transactionCreator interface {
	CreateTransaction(ctx context.Context, input service.TransactionInput) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transactions.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transactions",
		Summary:       "Create transaction",
		Description:   "Records a ledger entry. Linked income is added to the goal in the same unit of work.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func parseCreateTransactionInput(input *CreateTransactionInput) (service.TransactionInput, error) {
	userID, err := input.Caller()
	if err != nil {
		return service.TransactionInput{}, err
	}
	goalID, err := common.ParseOptionalID(input.Body.GoalID, "goalID")
	if err != nil {
		return service.TransactionInput{}, err
	}
	date, err := common.ParseOptionalTime(input.Body.Date, "date")
	if err != nil {
		return service.TransactionInput{}, err
	}

	result := service.TransactionInput{
		UserID:      userID,
		GoalID:      goalID,
		Amount:      input.Body.Amount,
		Type:        txstore.Type(input.Body.Type),
		Category:    input.Body.Category,
		Description: input.Body.Description,
	}
	if date != nil {
		result.Date = *date
	}
	return result, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	parsed, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	logData := logging.GetLogData(ctx)
	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("createTransactionMs")
	}
	created, err := h.TransactionService.CreateTransaction(ctx, parsed)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, common.Error(err, "failed to create transaction")
	}

	return &CreateTransactionOutput{Status: http.StatusCreated, Body: toTransaction(created)}, nil
}
