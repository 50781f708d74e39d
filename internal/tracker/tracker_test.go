package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/memory"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

func newGoal(current, target string, status goal.Status) *goal.Goal {
	return &goal.Goal{
		ID:            uuid.Must(uuid.NewV4()),
		UserID:        uuid.Must(uuid.NewV4()),
		Name:          "Emergency fund",
		TargetAmount:  decimal.RequireFromString(target),
		CurrentAmount: decimal.RequireFromString(current),
		Status:        status,
	}
}

func seedGoal(t *testing.T, store *memory.Store, target string) *goal.Goal {
	t.Helper()
	tx := store.Begin()
	g, err := tx.Goals().Insert(context.Background(), &goal.GoalCreate{
		UserID:       uuid.Must(uuid.NewV4()),
		Name:         "Car",
		TargetAmount: decimal.RequireFromString(target),
		Category:     "other",
		Deadline:     time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(context.Background()))
	return g
}

func propagate(t *testing.T, store *memory.Store, prior, next *Effect) error {
	t.Helper()
	tx := store.Begin()
	if err := Propagate(context.Background(), tx.Goals(), prior, next); err != nil {
		_ = tx.Rollback(context.Background())
		return err
	}
	return tx.Commit(context.Background())
}

func reload(t *testing.T, store *memory.Store, id uuid.UUID) *goal.Goal {
	t.Helper()
	g, err := store.Begin().Goals().FindByID(context.Background(), id)
	require.NoError(t, err)
	return g
}

// -- EffectOf tests --

func TestEffectOf(t *testing.T) {
	goalID := uuid.Must(uuid.NewV4())
	linked := uuid.NullUUID{UUID: goalID, Valid: true}

	assert.Nil(t, EffectOf(nil))
	assert.Nil(t, EffectOf(&transaction.Transaction{Type: transaction.TypeIncome, Amount: 10}))
	assert.Nil(t, EffectOf(&transaction.Transaction{Type: transaction.TypeExpense, Amount: 10, GoalID: linked}))
	assert.Equal(t, &Effect{GoalID: goalID, Amount: 10},
		EffectOf(&transaction.Transaction{Type: transaction.TypeIncome, Amount: 10, GoalID: linked}))
}

// -- Apply / Reverse tests --

func TestApply_CompletesAtTarget(t *testing.T) {
	g := newGoal("600.00", "1000.00", goal.StatusActive)

	assert.True(t, Apply(g, 400))
	assert.True(t, g.CurrentAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.Equal(t, goal.StatusCompleted, g.Status)
}

func TestApply_BelowTargetStaysActive(t *testing.T) {
	g := newGoal("0", "1000.00", goal.StatusActive)

	assert.True(t, Apply(g, 600))
	assert.Equal(t, "600.00", g.CurrentAmount.StringFixed(2))
	assert.Equal(t, goal.StatusActive, g.Status)
}

func TestReverse_NeverReactivates(t *testing.T) {
	g := newGoal("1100.00", "1000.00", goal.StatusCompleted)

	assert.True(t, Reverse(g, 600))
	assert.True(t, Apply(g, 100))
	assert.Equal(t, "600.00", g.CurrentAmount.StringFixed(2))
	assert.Equal(t, goal.StatusCompleted, g.Status)
}

func TestReverseThenApply_IsIdentity(t *testing.T) {
	g := newGoal("800.00", "1000.00", goal.StatusActive)

	Reverse(g, 300)
	Apply(g, 300)

	assert.Equal(t, "800.00", g.CurrentAmount.StringFixed(2))
	assert.Equal(t, goal.StatusActive, g.Status)
}

func TestReverse_FloorsAtZero(t *testing.T) {
	g := newGoal("100.00", "1000.00", goal.StatusActive)

	assert.True(t, Reverse(g, 250))
	assert.True(t, g.CurrentAmount.IsZero())

	// Past the floor the round trip no longer restores the start.
	Apply(g, 250)
	assert.Equal(t, "250.00", g.CurrentAmount.StringFixed(2))
}

func TestCancelledGoal_IgnoresEffects(t *testing.T) {
	g := newGoal("200.00", "1000.00", goal.StatusCancelled)

	assert.False(t, Apply(g, 500))
	assert.False(t, Reverse(g, 100))
	assert.Equal(t, "200.00", g.CurrentAmount.StringFixed(2))
	assert.Equal(t, goal.StatusCancelled, g.Status)
}

// -- Propagate tests --

func TestPropagate_ApplyOnly(t *testing.T) {
	store := memory.NewStore()
	g := seedGoal(t, store, "1000.00")

	require.NoError(t, propagate(t, store, nil, &Effect{GoalID: g.ID, Amount: 600}))

	got := reload(t, store, g.ID)
	assert.Equal(t, "600.00", got.CurrentAmount.StringFixed(2))
	assert.Equal(t, g.Version+1, got.Version)
}

func TestPropagate_SameGoalSingleWrite(t *testing.T) {
	store := memory.NewStore()
	g := seedGoal(t, store, "1000.00")
	require.NoError(t, propagate(t, store, nil, &Effect{GoalID: g.ID, Amount: 600}))

	require.NoError(t, propagate(t, store, &Effect{GoalID: g.ID, Amount: 600}, &Effect{GoalID: g.ID, Amount: 100}))

	got := reload(t, store, g.ID)
	assert.Equal(t, "100.00", got.CurrentAmount.StringFixed(2))
	assert.Equal(t, g.Version+2, got.Version)
}

func TestPropagate_MovesBetweenGoals(t *testing.T) {
	store := memory.NewStore()
	from := seedGoal(t, store, "1000.00")
	to := seedGoal(t, store, "500.00")
	require.NoError(t, propagate(t, store, nil, &Effect{GoalID: from.ID, Amount: 300}))

	require.NoError(t, propagate(t, store, &Effect{GoalID: from.ID, Amount: 300}, &Effect{GoalID: to.ID, Amount: 300}))

	assert.Equal(t, "0.00", reload(t, store, from.ID).CurrentAmount.StringFixed(2))
	assert.Equal(t, "300.00", reload(t, store, to.ID).CurrentAmount.StringFixed(2))
}

func TestPropagate_UnchangedEffectIsNoop(t *testing.T) {
	store := memory.NewStore()
	g := seedGoal(t, store, "1000.00")
	effect := &Effect{GoalID: g.ID, Amount: 50}

	require.NoError(t, propagate(t, store, effect, effect))
	assert.Equal(t, g.Version, reload(t, store, g.ID).Version)
}

func TestPropagate_MissingPriorGoalIsSkipped(t *testing.T) {
	store := memory.NewStore()
	g := seedGoal(t, store, "1000.00")

	err := propagate(t, store, &Effect{GoalID: uuid.Must(uuid.NewV4()), Amount: 10}, &Effect{GoalID: g.ID, Amount: 10})
	require.NoError(t, err)
	assert.Equal(t, "10.00", reload(t, store, g.ID).CurrentAmount.StringFixed(2))
}

func TestPropagate_MissingNextGoalIsNotFound(t *testing.T) {
	store := memory.NewStore()

	err := propagate(t, store, nil, &Effect{GoalID: uuid.Must(uuid.NewV4()), Amount: 10})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPropagate_StaleVersionConflicts(t *testing.T) {
	store := memory.NewStore()
	g := seedGoal(t, store, "1000.00")

	slow := store.Begin()
	require.NoError(t, Propagate(context.Background(), slow.Goals(), nil, &Effect{GoalID: g.ID, Amount: 200}))

	require.NoError(t, propagate(t, store, nil, &Effect{GoalID: g.ID, Amount: 300}))

	assert.ErrorIs(t, slow.Commit(context.Background()), apperr.ErrConcurrentUpdateConflict)
	assert.Equal(t, "300.00", reload(t, store, g.ID).CurrentAmount.StringFixed(2))
}

// -- Progress tests --

func TestProgressOf(t *testing.T) {
	p := ProgressOf(newGoal("600.00", "1000.00", goal.StatusActive))

	assert.Equal(t, "60", p.Percent.String())
	assert.Equal(t, goal.StatusActive, p.Status)
	assert.True(t, p.Target.Equal(decimal.RequireFromString("1000")))
}

func TestProgressOf_ZeroTarget(t *testing.T) {
	p := ProgressOf(newGoal("10.00", "0", goal.StatusActive))
	assert.True(t, p.Percent.IsZero())
}
