package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/budget"
)

// Budget is a monthly cap together with the spend derived at read time.
type Budget struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Category  string
	Month     int
	Year      int
	Amount    int64
	Spent     int64
	CreatedAt time.Time
}

type BudgetInput struct {
	UserID   uuid.UUID
	Category string
	Month    int
	Year     int
	Amount   int64
}

type BudgetPatch = actions.BudgetPatch

type BudgetService struct {
	storage  *storage.Storage
	operator actionProcessor
	spend    *Aggregator
}

func NewBudgetService(store *storage.Storage, op actionProcessor, spend *Aggregator) *BudgetService {
	return &BudgetService{storage: store, operator: op, spend: spend}
}

func (s *BudgetService) withSpent(ctx context.Context, b *budget.Budget) (*Budget, error) {
	spent, err := s.spend.GetSpent(ctx, b.UserID, b.Category, b.Month, b.Year)
	if err != nil {
		return nil, err
	}
	return &Budget{
		ID:        b.ID,
		UserID:    b.UserID,
		Category:  b.Category,
		Month:     b.Month,
		Year:      b.Year,
		Amount:    b.Amount,
		Spent:     spent,
		CreatedAt: b.CreatedAt,
	}, nil
}

// CreateBudget returns apperr.ErrDuplicateBudget when the period is taken.
func (s *BudgetService) CreateBudget(ctx context.Context, input BudgetInput) (*Budget, error) {
	action := &actions.CreateBudget{
		UserID:   input.UserID,
		Category: input.Category,
		Month:    input.Month,
		Year:     input.Year,
		Amount:   input.Amount,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return s.withSpent(ctx, action.Result)
}

func (s *BudgetService) GetBudget(ctx context.Context, userID, id uuid.UUID) (*Budget, error) {
	b, err := s.storage.Reader.Budgets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	return s.withSpent(ctx, b)
}

func (s *BudgetService) ListBudgets(ctx context.Context, userID uuid.UUID, month, year *int) ([]Budget, error) {
	rows, err := s.storage.Reader.Budgets.List(ctx, &budget.Filter{UserID: &userID, Month: month, Year: year})
	if err != nil {
		return nil, err
	}

	result := make([]Budget, len(rows))
	for i, row := range rows {
		b, err := s.withSpent(ctx, row)
		if err != nil {
			return nil, err
		}
		result[i] = *b
	}
	return result, nil
}

func (s *BudgetService) UpdateBudget(ctx context.Context, userID, id uuid.UUID, patch BudgetPatch) (*Budget, error) {
	action := &actions.UpdateBudget{UserID: userID, ID: id, Patch: patch}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return s.withSpent(ctx, action.Result)
}

func (s *BudgetService) DeleteBudget(ctx context.Context, userID, id uuid.UUID) error {
	return s.operator.Process(ctx, &actions.DeleteBudget{UserID: userID, ID: id})
}

// GetSpent exposes the aggregator to controllers.
func (s *BudgetService) GetSpent(ctx context.Context, userID uuid.UUID, category string, month, year int) (int64, error) {
	return s.spend.GetSpent(ctx, userID, category, month, year)
}
