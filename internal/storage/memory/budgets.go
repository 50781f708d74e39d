package memory

import (
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage/budget"
)

var _ budget.IWriter = (*budgetTable)(nil)

type budgetTable struct {
	tx *Tx
}

func (b *budgetTable) FindByID(_ context.Context, id uuid.UUID) (*budget.Budget, error) {
	found, ok := lookup(b.tx, b.tx.overlay.budgets, b.tx.store.committed.budgets, id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return found, nil
}

func (b *budgetTable) List(_ context.Context, filter *budget.Filter) ([]*budget.Budget, error) {
	all := visible(b.tx, b.tx.overlay.budgets, b.tx.store.committed.budgets)
	result := all[:0]
	for _, item := range all {
		if filter.Matches(item) {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		x, y := result[i], result[j]
		if x.Year != y.Year {
			return x.Year > y.Year
		}
		if x.Month != y.Month {
			return x.Month > y.Month
		}
		return x.Category < y.Category
	})
	return result, nil
}

func (b *budgetTable) checkPeriod(candidate *budget.Budget) error {
	for _, other := range visible(b.tx, b.tx.overlay.budgets, b.tx.store.committed.budgets) {
		if other.ID != candidate.ID && budget.SamePeriod(candidate, other) {
			return apperr.ErrDuplicateBudget
		}
	}
	return nil
}

func (b *budgetTable) Insert(_ context.Context, create *budget.BudgetCreate) (*budget.Budget, error) {
	if err := b.tx.writable(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	stored := &budget.Budget{
		ID:        id,
		UserID:    create.UserID,
		Category:  create.Category,
		Month:     create.Month,
		Year:      create.Year,
		Amount:    create.Amount,
		CreatedAt: now(),
	}
	if err := b.checkPeriod(stored); err != nil {
		return nil, err
	}
	b.tx.overlay.budgets[id] = stored

	c := *stored
	return &c, nil
}

func (b *budgetTable) Update(ctx context.Context, updated *budget.Budget) error {
	if err := b.tx.writable(); err != nil {
		return err
	}
	current, err := b.FindByID(ctx, updated.ID)
	if err != nil {
		return err
	}
	stored := *updated
	stored.UserID = current.UserID
	stored.CreatedAt = current.CreatedAt
	if err := b.checkPeriod(&stored); err != nil {
		return err
	}
	b.tx.overlay.budgets[updated.ID] = &stored
	return nil
}

func (b *budgetTable) Delete(ctx context.Context, id uuid.UUID) error {
	if err := b.tx.writable(); err != nil {
		return err
	}
	if _, err := b.FindByID(ctx, id); err != nil {
		return err
	}
	b.tx.overlay.budgets[id] = nil
	return nil
}
