package service

import (
	"context"
	"time"

	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// actionProcessor runs a mutation as one unit of work; satisfied by operator.OperatorDelegator.
type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Ledger    *LedgerService
	Goal      *GoalService
	Budget    *BudgetService
	Spend     *Aggregator
	Analytics *AnalyticsService
	User      *UserService
}

// NewService wires every service against one store and one operator.
// loc is the timezone month windows are computed in.
func NewService(store *storage.Storage, op actionProcessor, loc *time.Location) *Service {
	spend := NewAggregator(store, loc)
	return &Service{
		Ledger:    NewLedgerService(store, op),
		Goal:      NewGoalService(store, op),
		Budget:    NewBudgetService(store, op, spend),
		Spend:     spend,
		Analytics: NewAnalyticsService(store),
		User:      NewUserService(store, op),
	}
}
