package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// Transaction represents a ledger entry in the service layer.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	GoalID      *uuid.UUID
	Amount      int64
	Type        transaction.Type
	Category    string
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// TransactionInput is a new ledger entry. A zero Date means now.
type TransactionInput struct {
	UserID      uuid.UUID
	GoalID      *uuid.UUID
	Amount      int64
	Type        transaction.Type
	Category    string
	Date        time.Time
	Description string
}

type TransactionPatch = actions.TransactionPatch

// TransactionQuery narrows a transaction history listing.
type TransactionQuery struct {
	UserID   uuid.UUID
	Category *string
	GoalID   *uuid.UUID
	DateFrom *time.Time
	DateTo   *time.Time
}

// TransactionCursor identifies a position in a paginated result set.
type TransactionCursor struct {
	Position int
	Limit    int
}

func toServiceTransaction(t *transaction.Transaction) Transaction {
	result := Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Amount:      t.Amount,
		Type:        t.Type,
		Category:    t.Category,
		Date:        t.Date,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
	if t.GoalID.Valid {
		goalID := t.GoalID.UUID
		result.GoalID = &goalID
	}
	return result
}

func nullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
