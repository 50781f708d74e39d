package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
)

// ListTransactionsCursor represents a pagination cursor in responses.
type ListTransactionsCursor struct {
	Position int `json:"position" doc:"Offset of the next page"`
	Limit    int `json:"limit" doc:"Page size used for this cursor"`
}

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	common.Identity
	Category string `query:"category" doc:"Only this category"`
	GoalID   string `query:"goalID" doc:"Only transactions linked to this goal"`
	From     string `query:"from" doc:"RFC3339 inclusive lower date bound"`
	To       string `query:"to" doc:"RFC3339 inclusive upper date bound"`
	Position int    `query:"position" minimum:"0" doc:"Offset from a previous nextCursor"`
	Limit    int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size, defaults to 20"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction            `json:"transactions" doc:"Page of transactions, newest first"`
	NextCursor   *ListTransactionsCursor `json:"nextCursor,omitempty" doc:"Cursor to fetch the next page, absent on the last page"`
}

type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

type transactionLister interface {
	ListTransactions(ctx context.Context, query service.TransactionQuery, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns a page of the caller's transactions using offset cursors.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses filters and the cursor. A request without
// position or limit leaves the cursor nil so the service picks its default.
func parseListTransactionsInput(input *ListTransactionsInput) (service.TransactionQuery, *service.TransactionCursor, error) {
	var query service.TransactionQuery
	userID, err := input.Caller()
	if err != nil {
		return query, nil, err
	}
	query.UserID = userID

	if input.Category != "" {
		category := input.Category
		query.Category = &category
	}
	if query.GoalID, err = common.ParseOptionalID(input.GoalID, "goalID"); err != nil {
		return query, nil, err
	}
	if query.DateFrom, err = common.ParseOptionalTime(input.From, "from"); err != nil {
		return query, nil, err
	}
	if query.DateTo, err = common.ParseOptionalTime(input.To, "to"); err != nil {
		return query, nil, err
	}

	if input.Position == 0 && input.Limit == 0 {
		return query, nil, nil
	}
	return query, &service.TransactionCursor{Position: input.Position, Limit: input.Limit}, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	query, requestCursor, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	transactions, nextCursor, err := h.TransactionService.ListTransactions(ctx, query, requestCursor)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, common.Error(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(transactions))
	}

	resp := ListTransactionsResponseBody{
		Transactions: make([]Transaction, len(transactions)),
	}
	for i := range transactions {
		resp.Transactions[i] = toTransaction(&transactions[i])
	}

	if nextCursor != nil {
		resp.NextCursor = &ListTransactionsCursor{
			Position: nextCursor.Position,
			Limit:    nextCursor.Limit,
		}
	}

	return &ListTransactionsOutput{Body: resp}, nil
}
