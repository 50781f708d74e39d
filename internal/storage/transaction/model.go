package transaction

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Transaction represents a ledger entry. Amount is in minor currency units.
type Transaction struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	GoalID      uuid.NullUUID
	Amount      int64
	Type        Type
	Category    string
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// TransactionCreate is the input for creating a new transaction.
type TransactionCreate struct {
	UserID      uuid.UUID
	GoalID      uuid.NullUUID
	Amount      int64
	Type        Type
	Category    string
	Date        time.Time
	Description string
}

// Filter specifies filters for listing and summing transactions.
// DateFrom and DateTo are inclusive, DateBefore is exclusive.
type Filter struct {
	UserID     *uuid.UUID
	GoalID     *uuid.UUID
	Type       *Type
	Category   *string
	DateFrom   *time.Time
	DateTo     *time.Time
	DateBefore *time.Time
	Limit      int
	Offset     int
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string `db:"category"`
	Total    int64  `db:"total"`
}

// Matches reports whether t satisfies every condition of the filter, ignoring paging.
func (f *Filter) Matches(t *Transaction) bool {
	if f == nil {
		return true
	}
	if f.UserID != nil && t.UserID != *f.UserID {
		return false
	}
	if f.GoalID != nil && (!t.GoalID.Valid || t.GoalID.UUID != *f.GoalID) {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.Date.After(*f.DateTo) {
		return false
	}
	if f.DateBefore != nil && !t.Date.Before(*f.DateBefore) {
		return false
	}
	return true
}

// IReader defines the read side of transaction storage.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	// List returns matching transactions ordered by date descending.
	List(ctx context.Context, filter *Filter) ([]*Transaction, error)
	SumAmount(ctx context.Context, filter *Filter) (int64, error)
	SumByCategory(ctx context.Context, filter *Filter) ([]*CategoryTotal, error)
}

// IWriter defines transaction storage operations available inside a unit of work.
type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error)
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClearGoal nulls goal_id on every transaction linked to goalID.
	ClearGoal(ctx context.Context, goalID uuid.UUID) (int64, error)
}
