package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
)

type CreateGoal struct {
	UserID       uuid.UUID
	Name         string
	TargetAmount decimal.Decimal
	Category     string
	Deadline     time.Time

	Result *goal.Goal
}

func (c *CreateGoal) ActionName() string { return "CreateGoal" }

func (c *CreateGoal) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Goals.Insert(ctx, &goal.GoalCreate{
		UserID:       c.UserID,
		Name:         c.Name,
		TargetAmount: c.TargetAmount,
		Category:     c.Category,
		Deadline:     c.Deadline,
	})
	if err != nil {
		return err
	}
	c.Result = created
	return nil
}

// GoalPatch holds the owner-editable goal fields. The balance is never editable.
type GoalPatch struct {
	Name         *string
	TargetAmount *decimal.Decimal
	Category     *string
	Deadline     *time.Time
	Status       *goal.Status
}

type UpdateGoal struct {
	UserID uuid.UUID
	ID     uuid.UUID
	Patch  GoalPatch

	Result *goal.Goal
}

func (u *UpdateGoal) ActionName() string { return "UpdateGoal" }

func (u *UpdateGoal) Perform(ctx context.Context, writer *storage.Writer) error {
	g, err := writer.Goals.FindByIDForUpdate(ctx, u.ID)
	if err != nil {
		return err
	}
	if g.UserID != u.UserID {
		return apperr.ErrNotFound
	}

	if u.Patch.Name != nil {
		g.Name = *u.Patch.Name
	}
	if u.Patch.TargetAmount != nil {
		g.TargetAmount = *u.Patch.TargetAmount
	}
	if u.Patch.Category != nil {
		g.Category = *u.Patch.Category
	}
	if u.Patch.Deadline != nil {
		g.Deadline = *u.Patch.Deadline
	}
	if u.Patch.Status != nil && *u.Patch.Status != g.Status {
		// Owners may only cancel an active goal. Completion comes from
		// reaching the target, and nothing returns to active.
		if g.Status != goal.StatusActive || *u.Patch.Status != goal.StatusCancelled {
			return apperr.ErrInvalidStatusTransition
		}
		g.Status = *u.Patch.Status
	}

	if err := writer.Goals.Update(ctx, g); err != nil {
		return err
	}
	u.Result = g
	return nil
}

// DeleteGoal removes the goal and unlinks its transactions without reversing them.
type DeleteGoal struct {
	UserID uuid.UUID
	ID     uuid.UUID

	Unlinked int64
}

func (d *DeleteGoal) ActionName() string { return "DeleteGoal" }

func (d *DeleteGoal) Perform(ctx context.Context, writer *storage.Writer) error {
	g, err := writer.Goals.FindByIDForUpdate(ctx, d.ID)
	if err != nil {
		return err
	}
	if g.UserID != d.UserID {
		return apperr.ErrNotFound
	}

	unlinked, err := writer.Transactions.ClearGoal(ctx, d.ID)
	if err != nil {
		return err
	}
	if err := writer.Goals.Delete(ctx, d.ID, g.Version); err != nil {
		return err
	}

	d.Unlinked = unlinked
	return nil
}
