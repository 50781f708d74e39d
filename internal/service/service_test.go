package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/operator"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/memory"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

func newTestService(t *testing.T, loc *time.Location) *Service {
	t.Helper()
	logger := logrus.New()
	logger.Out = io.Discard

	store := storage.NewMemoryStorage(memory.NewStore())
	op := operator.NewOperatorDelegator(store, 2, 8, logger)
	op.Start()
	t.Cleanup(op.Stop)

	return NewService(store, op, loc)
}

func newUser(t *testing.T, svc *Service) uuid.UUID {
	t.Helper()
	u, err := svc.User.CreateUser(context.Background(), "Sam", uuid.Must(uuid.NewV4()).String()+"@example.com")
	require.NoError(t, err)
	return u.ID
}

func expense(t *testing.T, svc *Service, userID uuid.UUID, category string, amount int64, date time.Time) {
	t.Helper()
	_, err := svc.Ledger.CreateTransaction(context.Background(), TransactionInput{
		UserID:   userID,
		Amount:   amount,
		Type:     transaction.TypeExpense,
		Category: category,
		Date:     date,
	})
	require.NoError(t, err)
}

// -- Ledger tests --

func TestListTransactions_Paginates(t *testing.T) {
	svc := newTestService(t, time.UTC)
	ctx := context.Background()
	userID := newUser(t, svc)

	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		expense(t, svc, userID, "food", int64(10+i), base.AddDate(0, 0, i))
	}

	page, next, err := svc.Ledger.ListTransactions(ctx, TransactionQuery{UserID: userID}, &TransactionCursor{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, int64(14), page[0].Amount)
	assert.Equal(t, 2, next.Position)

	page, next, err = svc.Ledger.ListTransactions(ctx, TransactionQuery{UserID: userID}, &TransactionCursor{Position: 4, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Nil(t, next)
	assert.Equal(t, int64(10), page[0].Amount)
}

func TestGetTransaction_OtherUserIsNotFound(t *testing.T) {
	svc := newTestService(t, time.UTC)
	ctx := context.Background()
	owner := newUser(t, svc)
	other := newUser(t, svc)

	created, err := svc.Ledger.CreateTransaction(ctx, TransactionInput{
		UserID: owner, Amount: 30, Type: transaction.TypeExpense, Category: "food",
	})
	require.NoError(t, err)
	assert.False(t, created.Date.IsZero())

	_, err = svc.Ledger.GetTransaction(ctx, other, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// -- Goal tests --

func TestGoalProgress_FollowsLinkedIncome(t *testing.T) {
	svc := newTestService(t, time.UTC)
	ctx := context.Background()
	userID := newUser(t, svc)

	g, err := svc.Goal.CreateGoal(ctx, GoalInput{
		UserID:       userID,
		Name:         "Laptop",
		TargetAmount: decimal.NewFromInt(1000),
		Category:     "electronics",
		Deadline:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	_, err = svc.Ledger.CreateTransaction(ctx, TransactionInput{
		UserID: userID, GoalID: &g.ID, Amount: 250, Type: transaction.TypeIncome, Category: "salary",
	})
	require.NoError(t, err)

	progress, err := svc.Goal.GetProgress(ctx, userID, g.ID)
	require.NoError(t, err)
	assert.True(t, progress.Current.Equal(decimal.NewFromInt(250)))
	assert.True(t, progress.Percent.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, goal.StatusActive, progress.Status)

	active := goal.StatusActive
	goals, err := svc.Goal.ListGoals(ctx, userID, &active)
	require.NoError(t, err)
	assert.Len(t, goals, 1)

	completed := goal.StatusCompleted
	goals, err = svc.Goal.ListGoals(ctx, userID, &completed)
	require.NoError(t, err)
	assert.Empty(t, goals)
}

func TestDeleteGoal_UnlinksTransactions(t *testing.T) {
	svc := newTestService(t, time.UTC)
	ctx := context.Background()
	userID := newUser(t, svc)

	g, err := svc.Goal.CreateGoal(ctx, GoalInput{UserID: userID, Name: "Bike", TargetAmount: decimal.NewFromInt(400)})
	require.NoError(t, err)
	tx, err := svc.Ledger.CreateTransaction(ctx, TransactionInput{
		UserID: userID, GoalID: &g.ID, Amount: 100, Type: transaction.TypeIncome, Category: "salary",
	})
	require.NoError(t, err)

	unlinked, err := svc.Goal.DeleteGoal(ctx, userID, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unlinked)

	found, err := svc.Ledger.GetTransaction(ctx, userID, tx.ID)
	require.NoError(t, err)
	assert.Nil(t, found.GoalID)
}

// -- Budget tests --

func TestGetSpent_MonthBoundaries(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	svc := newTestService(t, loc)
	ctx := context.Background()
	userID := newUser(t, svc)

	expense(t, svc, userID, "food", 100, time.Date(2025, 6, 1, 0, 0, 0, 0, loc))
	expense(t, svc, userID, "food", 200, time.Date(2025, 6, 30, 23, 59, 0, 0, loc))
	expense(t, svc, userID, "food", 400, time.Date(2025, 7, 1, 0, 0, 0, 0, loc))
	expense(t, svc, userID, "food", 800, time.Date(2025, 5, 31, 23, 59, 0, 0, loc))
	expense(t, svc, userID, "rent", 1600, time.Date(2025, 6, 15, 0, 0, 0, 0, loc))

	spent, err := svc.Spend.GetSpent(ctx, userID, "food", 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(300), spent)
}

func TestGetSpent_IgnoresIncome(t *testing.T) {
	svc := newTestService(t, time.UTC)
	ctx := context.Background()
	userID := newUser(t, svc)

	expense(t, svc, userID, "food", 50, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))
	_, err := svc.Ledger.CreateTransaction(ctx, TransactionInput{
		UserID: userID, Amount: 70, Type: transaction.TypeIncome, Category: "food",
		Date: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	spent, err := svc.Spend.GetSpent(ctx, userID, "food", 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(50), spent)
}

func TestBudget_CarriesSpentAndRejectsDuplicate(t *testing.T) {
	svc := newTestService(t, time.UTC)
	ctx := context.Background()
	userID := newUser(t, svc)

	expense(t, svc, userID, "food", 450, time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC))

	b, err := svc.Budget.CreateBudget(ctx, BudgetInput{UserID: userID, Category: "food", Month: 6, Year: 2025, Amount: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(450), b.Spent)

	_, err = svc.Budget.CreateBudget(ctx, BudgetInput{UserID: userID, Category: "food", Month: 6, Year: 2025, Amount: 900})
	assert.ErrorIs(t, err, apperr.ErrDuplicateBudget)

	month := 6
	budgets, err := svc.Budget.ListBudgets(ctx, userID, &month, nil)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, int64(450), budgets[0].Spent)
}

// -- Analytics tests --

func TestAnalytics_SummaryAndCategories(t *testing.T) {
	svc := newTestService(t, time.UTC)
	ctx := context.Background()
	userID := newUser(t, svc)

	day := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	expense(t, svc, userID, "food", 120, day)
	expense(t, svc, userID, "rent", 900, day)
	expense(t, svc, userID, "food", 30, day)
	_, err := svc.Ledger.CreateTransaction(ctx, TransactionInput{
		UserID: userID, Amount: 2000, Type: transaction.TypeIncome, Category: "salary", Date: day,
	})
	require.NoError(t, err)

	summary, err := svc.Analytics.Summary(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Income: 2000, Expenses: 1050, Savings: 950}, *summary)

	categories, err := svc.Analytics.CategoryBreakdown(ctx, userID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []CategoryTotal{{Category: "rent", Total: 900}, {Category: "food", Total: 150}}, categories)

	later := day.AddDate(0, 0, 1)
	summary, err = svc.Analytics.Summary(ctx, userID, &later, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, *summary)
}
