package budget

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Budget is a monthly spending cap for one category. Amount is in minor
// currency units. Spend is always derived from the ledger, never stored.
type Budget struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Category  string
	Month     int
	Year      int
	Amount    int64
	CreatedAt time.Time
}

// BudgetCreate is the input for creating a new budget.
type BudgetCreate struct {
	UserID   uuid.UUID
	Category string
	Month    int
	Year     int
	Amount   int64
}

// Filter specifies filters for listing budgets.
type Filter struct {
	UserID   *uuid.UUID
	Category *string
	Month    *int
	Year     *int
}

func (f *Filter) Matches(b *Budget) bool {
	if f == nil {
		return true
	}
	if f.UserID != nil && b.UserID != *f.UserID {
		return false
	}
	if f.Category != nil && b.Category != *f.Category {
		return false
	}
	if f.Month != nil && b.Month != *f.Month {
		return false
	}
	if f.Year != nil && b.Year != *f.Year {
		return false
	}
	return true
}

// SamePeriod reports whether both budgets occupy the same unique slot.
func SamePeriod(a, b *Budget) bool {
	return a.UserID == b.UserID && a.Category == b.Category && a.Month == b.Month && a.Year == b.Year
}

type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Budget, error)
	List(ctx context.Context, filter *Filter) ([]*Budget, error)
}

// IWriter defines budget storage operations available inside a unit of work.
// Insert and Update return apperr.ErrDuplicateBudget on a period collision.
type IWriter interface {
	IReader
	Insert(ctx context.Context, create *BudgetCreate) (*Budget, error)
	Update(ctx context.Context, b *Budget) error
	Delete(ctx context.Context, id uuid.UUID) error
}
