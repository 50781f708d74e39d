package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/tracker"
)

var hundred = decimal.NewFromInt(100)

// MarkGoalAchieved completes a goal that reached its target and latches its
// achievement announcement. Announce is true only for the call that set the latch.
type MarkGoalAchieved struct {
	GoalID uuid.UUID

	Announce bool
	Result   *goal.Goal
}

func (m *MarkGoalAchieved) ActionName() string { return "MarkGoalAchieved" }

func (m *MarkGoalAchieved) Perform(ctx context.Context, writer *storage.Writer) error {
	m.Announce = false

	g, err := writer.Goals.FindByIDForUpdate(ctx, m.GoalID)
	if err != nil {
		return err
	}
	if g.AchievementNotified || g.Status == goal.StatusCancelled {
		m.Result = g
		return nil
	}
	if g.Status == goal.StatusActive && tracker.Percent(g).LessThan(hundred) {
		m.Result = g
		return nil
	}

	g.Status = goal.StatusCompleted
	g.AchievementNotified = true
	if err := writer.Goals.Update(ctx, g); err != nil {
		return err
	}

	m.Announce = true
	m.Result = g
	return nil
}

// MarkGoalMilestone latches the halfway alert after it was delivered.
type MarkGoalMilestone struct {
	GoalID uuid.UUID
}

func (m *MarkGoalMilestone) ActionName() string { return "MarkGoalMilestone" }

func (m *MarkGoalMilestone) Perform(ctx context.Context, writer *storage.Writer) error {
	g, err := writer.Goals.FindByIDForUpdate(ctx, m.GoalID)
	if err != nil {
		return err
	}
	if g.MilestoneNotified {
		return nil
	}

	g.MilestoneNotified = true
	return writer.Goals.Update(ctx, g)
}
