package memory

import (
	"bytes"
	"context"
	"sort"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
)

var _ goal.IWriter = (*goalTable)(nil)

type goalTable struct {
	tx *Tx
}

func (g *goalTable) FindByID(_ context.Context, id uuid.UUID) (*goal.Goal, error) {
	found, ok := lookup(g.tx, g.tx.overlay.goals, g.tx.store.committed.goals, id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return found, nil
}

func (g *goalTable) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*goal.Goal, error) {
	return g.FindByID(ctx, id)
}

func (g *goalTable) List(_ context.Context, filter *goal.Filter) ([]*goal.Goal, error) {
	all := visible(g.tx, g.tx.overlay.goals, g.tx.store.committed.goals)
	result := all[:0]
	for _, item := range all {
		if filter.Matches(item) {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return bytes.Compare(result[i].ID.Bytes(), result[j].ID.Bytes()) < 0
	})
	return result, nil
}

func (g *goalTable) Insert(_ context.Context, create *goal.GoalCreate) (*goal.Goal, error) {
	if err := g.tx.writable(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	createdAt := now()
	stored := &goal.Goal{
		ID:            id,
		UserID:        create.UserID,
		Name:          create.Name,
		TargetAmount:  create.TargetAmount,
		CurrentAmount: decimal.Zero,
		Category:      create.Category,
		Deadline:      create.Deadline,
		Status:        goal.StatusActive,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	g.tx.overlay.goals[id] = stored

	c := *stored
	return &c, nil
}

// expect checks that the caller saw the current version and records the
// committed version this Tx depends on.
func (g *goalTable) expect(ctx context.Context, id uuid.UUID, version int64) error {
	current, err := g.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Version != version {
		return apperr.ErrConcurrentUpdateConflict
	}
	if _, touched := g.tx.overlay.goals[id]; !touched {
		g.tx.goalVersions[id] = version
	}
	return nil
}

func (g *goalTable) Update(ctx context.Context, updated *goal.Goal) error {
	if err := g.tx.writable(); err != nil {
		return err
	}
	if err := g.expect(ctx, updated.ID, updated.Version); err != nil {
		return err
	}

	updated.Version++
	updated.UpdatedAt = now()
	stored := *updated
	g.tx.overlay.goals[updated.ID] = &stored
	return nil
}

func (g *goalTable) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	if err := g.tx.writable(); err != nil {
		return err
	}
	if err := g.expect(ctx, id, version); err != nil {
		return err
	}
	g.tx.overlay.goals[id] = nil
	return nil
}
