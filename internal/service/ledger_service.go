package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

const defaultLimit = 20

// LedgerService owns transaction records. Every mutation runs through the
// operator so the goal effect commits together with the transaction write.
type LedgerService struct {
	storage  *storage.Storage
	operator actionProcessor
}

func NewLedgerService(store *storage.Storage, op actionProcessor) *LedgerService {
	return &LedgerService{storage: store, operator: op}
}

func (s *LedgerService) CreateTransaction(ctx context.Context, input TransactionInput) (*Transaction, error) {
	date := input.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}

	action := &actions.CreateTransaction{
		UserID:      input.UserID,
		GoalID:      nullUUID(input.GoalID),
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    input.Category,
		Date:        date,
		Description: input.Description,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	result := toServiceTransaction(action.Result)
	return &result, nil
}

func (s *LedgerService) AmendTransaction(ctx context.Context, userID, id uuid.UUID, patch TransactionPatch) (*Transaction, error) {
	action := &actions.AmendTransaction{UserID: userID, ID: id, Patch: patch}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	result := toServiceTransaction(action.Result)
	return &result, nil
}

func (s *LedgerService) RemoveTransaction(ctx context.Context, userID, id uuid.UUID) error {
	return s.operator.Process(ctx, &actions.RemoveTransaction{UserID: userID, ID: id})
}

// GetTransaction returns the caller's transaction, or apperr.ErrNotFound.
func (s *LedgerService) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	found, err := s.storage.Reader.Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if found.UserID != userID {
		return nil, apperr.ErrNotFound
	}

	result := toServiceTransaction(found)
	return &result, nil
}

// ListTransactions returns a page of the caller's history, newest first.
func (s *LedgerService) ListTransactions(ctx context.Context, query TransactionQuery, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	userID := query.UserID
	filter := &transaction.Filter{
		UserID:   &userID,
		Category: query.Category,
		GoalID:   query.GoalID,
		DateFrom: query.DateFrom,
		DateTo:   query.DateTo,
		Limit:    limit + 1,
		Offset:   offset,
	}

	rows, err := s.storage.Reader.Transactions.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}

	converted := make([]Transaction, len(rows))
	for i, row := range rows {
		converted[i] = toServiceTransaction(row)
	}

	return converted, nextCursor, nil
}
