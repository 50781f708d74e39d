package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// Aggregator derives budget spend from the ledger on every call. Nothing is cached.
type Aggregator struct {
	storage  *storage.Storage
	location *time.Location
}

func NewAggregator(store *storage.Storage, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{storage: store, location: loc}
}

// MonthWindow returns [year-month-01, next-month-01) in loc.
func MonthWindow(month, year int, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// GetSpent sums expense transactions of the user and category inside the month.
func (a *Aggregator) GetSpent(ctx context.Context, userID uuid.UUID, category string, month, year int) (int64, error) {
	start, end := MonthWindow(month, year, a.location)
	expense := transaction.TypeExpense

	return a.storage.Reader.Transactions.SumAmount(ctx, &transaction.Filter{
		UserID:     &userID,
		Category:   &category,
		Type:       &expense,
		DateFrom:   &start,
		DateBefore: &end,
	})
}

// Now returns the current time in the aggregation timezone.
func (a *Aggregator) Now() time.Time {
	return time.Now().In(a.location)
}
