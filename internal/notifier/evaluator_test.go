package notifier

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/service"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/memory"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

var passTime = time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func (m *mockSender) subjects() []string {
	var result []string
	for _, call := range m.Calls {
		result = append(result, call.Arguments.String(2))
	}
	return result
}

type fixture struct {
	t      *testing.T
	store  *storage.Storage
	op     *operator.OperatorDelegator
	sender *mockSender
	eval   *Evaluator
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := logrus.New()
	logger.Out = io.Discard

	store := storage.NewMemoryStorage(memory.NewStore())
	op := operator.NewOperatorDelegator(store, 2, 8, logger)
	op.Start()
	t.Cleanup(op.Stop)

	sender := &mockSender{}
	eval := NewEvaluator(store, op, service.NewAggregator(store, time.UTC), sender, time.UTC, 4, logger)
	eval.now = func() time.Time { return passTime }

	return &fixture{t: t, store: store, op: op, sender: sender, eval: eval, ctx: context.Background()}
}

func (f *fixture) process(action actions.IAction) {
	f.t.Helper()
	require.NoError(f.t, f.op.Process(f.ctx, action))
}

func (f *fixture) user(email string) uuid.UUID {
	f.t.Helper()
	action := &actions.CreateUser{Name: "Sam", Email: email}
	f.process(action)
	return action.Result.ID
}

func (f *fixture) goal(userID uuid.UUID, target int64) uuid.UUID {
	f.t.Helper()
	action := &actions.CreateGoal{UserID: userID, Name: "Laptop", TargetAmount: decimal.NewFromInt(target)}
	f.process(action)
	return action.Result.ID
}

func (f *fixture) income(userID, goalID uuid.UUID, amount int64) {
	f.t.Helper()
	f.process(&actions.CreateTransaction{
		UserID:   userID,
		GoalID:   uuid.NullUUID{UUID: goalID, Valid: true},
		Amount:   amount,
		Type:     transaction.TypeIncome,
		Category: "salary",
		Date:     passTime,
	})
}

func (f *fixture) expense(userID uuid.UUID, amount int64) {
	f.t.Helper()
	f.process(&actions.CreateTransaction{
		UserID:   userID,
		Amount:   amount,
		Type:     transaction.TypeExpense,
		Category: "food",
		Date:     passTime.AddDate(0, 0, -5),
	})
}

func (f *fixture) budget(userID uuid.UUID, amount int64) {
	f.t.Helper()
	f.process(&actions.CreateBudget{UserID: userID, Category: "food", Month: 6, Year: 2025, Amount: amount})
}

func (f *fixture) loadGoal(id uuid.UUID) *goal.Goal {
	f.t.Helper()
	g, err := f.store.Reader.Goals.FindByID(f.ctx, id)
	require.NoError(f.t, err)
	return g
}

// -- Goal pass tests --

func TestGoalPass_MilestoneThenAchievedOnce(t *testing.T) {
	f := newFixture(t)
	f.sender.On("Send", mock.Anything, "sam@example.com", mock.Anything, mock.Anything).Return(nil)

	userID := f.user("sam@example.com")
	goalID := f.goal(userID, 1000)
	f.income(userID, goalID, 600)

	result, err := f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Sent)
	assert.Equal(t, []string{"Goal Milestone: Laptop"}, f.sender.subjects())
	assert.True(t, f.loadGoal(goalID).MilestoneNotified)

	_, err = f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	f.sender.AssertNumberOfCalls(t, "Send", 1)

	f.income(userID, goalID, 500)
	assert.Equal(t, goal.StatusCompleted, f.loadGoal(goalID).Status)

	result, err = f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Sent)
	assert.Equal(t, []string{"Goal Milestone: Laptop", "Goal Achieved: Laptop"}, f.sender.subjects())

	result, err = f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Checked)
	f.sender.AssertNumberOfCalls(t, "Send", 2)
}

func TestGoalPass_FailedMilestoneIsRetried(t *testing.T) {
	f := newFixture(t)
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperr.ErrNotificationDeliveryFailed).Once()
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	userID := f.user("sam@example.com")
	goalID := f.goal(userID, 1000)
	f.income(userID, goalID, 500)

	result, err := f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Failed)
	assert.False(t, f.loadGoal(goalID).MilestoneNotified)

	result, err = f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Sent)
	assert.True(t, f.loadGoal(goalID).MilestoneNotified)
}

func TestGoalPass_FailedAchievementIsNotRetried(t *testing.T) {
	f := newFixture(t)
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperr.ErrNotificationDeliveryFailed)

	userID := f.user("sam@example.com")
	goalID := f.goal(userID, 100)
	f.income(userID, goalID, 150)

	result, err := f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Failed)

	g := f.loadGoal(goalID)
	assert.Equal(t, goal.StatusCompleted, g.Status)
	assert.True(t, g.AchievementNotified)

	_, err = f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	f.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestGoalPass_BelowHalfwayIsQuiet(t *testing.T) {
	f := newFixture(t)
	userID := f.user("sam@example.com")
	goalID := f.goal(userID, 1000)
	f.income(userID, goalID, 499)

	result, err := f.eval.GoalPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Checked)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// -- Budget pass tests --

func TestBudgetPass_WarningRepeatsThenExceeded(t *testing.T) {
	f := newFixture(t)
	f.sender.On("Send", mock.Anything, "sam@example.com", mock.Anything, mock.Anything).Return(nil)

	userID := f.user("sam@example.com")
	f.budget(userID, 500)
	f.expense(userID, 480)

	for i := 0; i < 2; i++ {
		result, err := f.eval.BudgetPass(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Sent)
	}

	f.expense(userID, 40)
	_, err := f.eval.BudgetPass(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Budget Warning: food", "Budget Warning: food", "Budget Exceeded: food"}, f.sender.subjects())
	assert.Contains(t, f.sender.Calls[0].Arguments.String(3), "(96.00%)")
	assert.Contains(t, f.sender.Calls[2].Arguments.String(3), "You've spent $520.")
}

func TestBudgetPass_FailureIsIsolatedPerEntity(t *testing.T) {
	f := newFixture(t)
	f.sender.On("Send", mock.Anything, "broken@example.com", mock.Anything, mock.Anything).
		Return(fmt.Errorf("%w: refused", apperr.ErrNotificationDeliveryFailed))
	f.sender.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	for _, email := range []string{"broken@example.com", "a@example.com", "b@example.com"} {
		userID := f.user(email)
		f.budget(userID, 100)
		f.expense(userID, 95)
	}

	result, err := f.eval.BudgetPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, &PassResult{Checked: 3, Sent: 2, Failed: 1}, result)
}

func TestBudgetPass_SkipsOtherMonthsAndZeroCaps(t *testing.T) {
	f := newFixture(t)
	userID := f.user("sam@example.com")
	f.process(&actions.CreateBudget{UserID: userID, Category: "food", Month: 5, Year: 2025, Amount: 10})
	f.process(&actions.CreateBudget{UserID: userID, Category: "rent", Month: 6, Year: 2025, Amount: 0})
	f.expense(userID, 100)

	result, err := f.eval.BudgetPass(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, &PassResult{Checked: 1, Skipped: 1}, result)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
