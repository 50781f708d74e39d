package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/tracker"
)

// Goal represents a savings goal in the service layer.
type Goal struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	Name              string
	TargetAmount      decimal.Decimal
	CurrentAmount     decimal.Decimal
	Percent           decimal.Decimal
	Category          string
	Deadline          time.Time
	Status            goal.Status
	MilestoneNotified bool
	CreatedAt         time.Time
}

type GoalInput struct {
	UserID       uuid.UUID
	Name         string
	TargetAmount decimal.Decimal
	Category     string
	Deadline     time.Time
}

type GoalPatch = actions.GoalPatch

// GoalProgress is the read projection {current, target, percent, status}.
type GoalProgress = tracker.Progress

func toServiceGoal(g *goal.Goal) Goal {
	return Goal{
		ID:                g.ID,
		UserID:            g.UserID,
		Name:              g.Name,
		TargetAmount:      g.TargetAmount,
		CurrentAmount:     g.CurrentAmount,
		Percent:           tracker.ProgressOf(g).Percent,
		Category:          g.Category,
		Deadline:          g.Deadline,
		Status:            g.Status,
		MilestoneNotified: g.MilestoneNotified,
		CreatedAt:         g.CreatedAt,
	}
}
