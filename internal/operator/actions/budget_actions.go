package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/budget"
)

type CreateBudget struct {
	UserID   uuid.UUID
	Category string
	Month    int
	Year     int
	Amount   int64

	Result *budget.Budget
}

func (c *CreateBudget) ActionName() string { return "CreateBudget" }

func (c *CreateBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Budgets.Insert(ctx, &budget.BudgetCreate{
		UserID:   c.UserID,
		Category: c.Category,
		Month:    c.Month,
		Year:     c.Year,
		Amount:   c.Amount,
	})
	if err != nil {
		return err
	}
	c.Result = created
	return nil
}

type BudgetPatch struct {
	Category *string
	Month    *int
	Year     *int
	Amount   *int64
}

type UpdateBudget struct {
	UserID uuid.UUID
	ID     uuid.UUID
	Patch  BudgetPatch

	Result *budget.Budget
}

func (u *UpdateBudget) ActionName() string { return "UpdateBudget" }

func (u *UpdateBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	b, err := writer.Budgets.FindByID(ctx, u.ID)
	if err != nil {
		return err
	}
	if b.UserID != u.UserID {
		return apperr.ErrNotFound
	}

	if u.Patch.Category != nil {
		b.Category = *u.Patch.Category
	}
	if u.Patch.Month != nil {
		b.Month = *u.Patch.Month
	}
	if u.Patch.Year != nil {
		b.Year = *u.Patch.Year
	}
	if u.Patch.Amount != nil {
		b.Amount = *u.Patch.Amount
	}

	if err := writer.Budgets.Update(ctx, b); err != nil {
		return err
	}
	u.Result = b
	return nil
}

type DeleteBudget struct {
	UserID uuid.UUID
	ID     uuid.UUID
}

func (d *DeleteBudget) ActionName() string { return "DeleteBudget" }

func (d *DeleteBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	b, err := writer.Budgets.FindByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if b.UserID != d.UserID {
		return apperr.ErrNotFound
	}
	return writer.Budgets.Delete(ctx, d.ID)
}
