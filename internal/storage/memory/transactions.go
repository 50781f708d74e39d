package memory

import (
	"bytes"
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

var _ transaction.IWriter = (*transactionTable)(nil)

type transactionTable struct {
	tx *Tx
}

func (t *transactionTable) FindByID(_ context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	found, ok := lookup(t.tx, t.tx.overlay.transactions, t.tx.store.committed.transactions, id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return found, nil
}

func (t *transactionTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	t.tx.lockTransaction(id)
	return t.FindByID(ctx, id)
}

func (t *transactionTable) matching(filter *transaction.Filter) []*transaction.Transaction {
	all := visible(t.tx, t.tx.overlay.transactions, t.tx.store.committed.transactions)
	result := all[:0]
	for _, item := range all {
		if filter.Matches(item) {
			result = append(result, item)
		}
	}
	return result
}

func (t *transactionTable) List(_ context.Context, filter *transaction.Filter) ([]*transaction.Transaction, error) {
	result := t.matching(filter)
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return bytes.Compare(a.ID.Bytes(), b.ID.Bytes()) > 0
	})

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(result) {
				return []*transaction.Transaction{}, nil
			}
			result = result[filter.Offset:]
		}
		if filter.Limit > 0 && len(result) > filter.Limit {
			result = result[:filter.Limit]
		}
	}
	return result, nil
}

func (t *transactionTable) SumAmount(_ context.Context, filter *transaction.Filter) (int64, error) {
	var total int64
	for _, item := range t.matching(filter) {
		total += item.Amount
	}
	return total, nil
}

func (t *transactionTable) SumByCategory(_ context.Context, filter *transaction.Filter) ([]*transaction.CategoryTotal, error) {
	totals := make(map[string]int64)
	for _, item := range t.matching(filter) {
		totals[item.Category] += item.Amount
	}

	result := make([]*transaction.CategoryTotal, 0, len(totals))
	for category, total := range totals {
		result = append(result, &transaction.CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

func (t *transactionTable) Insert(_ context.Context, create *transaction.TransactionCreate) (*transaction.Transaction, error) {
	if err := t.tx.writable(); err != nil {
		return nil, err
	}
	if create.GoalID.Valid {
		if _, ok := lookup(t.tx, t.tx.overlay.goals, t.tx.store.committed.goals, create.GoalID.UUID); !ok {
			return nil, apperr.ErrNotFound
		}
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	stored := &transaction.Transaction{
		ID:          id,
		UserID:      create.UserID,
		GoalID:      create.GoalID,
		Amount:      create.Amount,
		Type:        create.Type,
		Category:    create.Category,
		Date:        create.Date,
		Description: create.Description,
		CreatedAt:   now(),
	}
	t.tx.overlay.transactions[id] = stored

	c := *stored
	return &c, nil
}

func (t *transactionTable) Update(ctx context.Context, updated *transaction.Transaction) error {
	if err := t.tx.writable(); err != nil {
		return err
	}
	t.tx.lockTransaction(updated.ID)
	current, err := t.FindByID(ctx, updated.ID)
	if err != nil {
		return err
	}
	if updated.GoalID.Valid {
		if _, ok := lookup(t.tx, t.tx.overlay.goals, t.tx.store.committed.goals, updated.GoalID.UUID); !ok {
			return apperr.ErrNotFound
		}
	}

	stored := *updated
	stored.UserID = current.UserID
	stored.CreatedAt = current.CreatedAt
	t.tx.overlay.transactions[updated.ID] = &stored
	return nil
}

func (t *transactionTable) Delete(ctx context.Context, id uuid.UUID) error {
	if err := t.tx.writable(); err != nil {
		return err
	}
	t.tx.lockTransaction(id)
	if _, err := t.FindByID(ctx, id); err != nil {
		return err
	}
	t.tx.overlay.transactions[id] = nil
	return nil
}

func (t *transactionTable) ClearGoal(_ context.Context, goalID uuid.UUID) (int64, error) {
	if err := t.tx.writable(); err != nil {
		return 0, err
	}
	var cleared int64
	for _, item := range t.matching(&transaction.Filter{GoalID: &goalID}) {
		t.tx.lockTransaction(item.ID)
		item.GoalID = uuid.NullUUID{}
		t.tx.overlay.transactions[item.ID] = item
		cleared++
	}
	return cleared, nil
}
