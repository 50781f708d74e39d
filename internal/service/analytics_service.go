package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// Summary totals income and expenses. Savings may be negative.
type Summary struct {
	Income   int64
	Expenses int64
	Savings  int64
}

type CategoryTotal struct {
	Category string
	Total    int64
}

// AnalyticsService answers read-only questions over the ledger.
type AnalyticsService struct {
	storage *storage.Storage
}

func NewAnalyticsService(store *storage.Storage) *AnalyticsService {
	return &AnalyticsService{storage: store}
}

func (s *AnalyticsService) filter(userID uuid.UUID, txType transaction.Type, from, to *time.Time) *transaction.Filter {
	return &transaction.Filter{UserID: &userID, Type: &txType, DateFrom: from, DateTo: to}
}

func (s *AnalyticsService) Summary(ctx context.Context, userID uuid.UUID, from, to *time.Time) (*Summary, error) {
	income, err := s.storage.Reader.Transactions.SumAmount(ctx, s.filter(userID, transaction.TypeIncome, from, to))
	if err != nil {
		return nil, err
	}
	expenses, err := s.storage.Reader.Transactions.SumAmount(ctx, s.filter(userID, transaction.TypeExpense, from, to))
	if err != nil {
		return nil, err
	}

	return &Summary{Income: income, Expenses: expenses, Savings: income - expenses}, nil
}

// CategoryBreakdown totals expenses per category, largest first.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, userID uuid.UUID, from, to *time.Time) ([]CategoryTotal, error) {
	rows, err := s.storage.Reader.Transactions.SumByCategory(ctx, s.filter(userID, transaction.TypeExpense, from, to))
	if err != nil {
		return nil, err
	}

	result := make([]CategoryTotal, len(rows))
	for i, row := range rows {
		result[i] = CategoryTotal{Category: row.Category, Total: row.Total}
	}
	return result, nil
}
