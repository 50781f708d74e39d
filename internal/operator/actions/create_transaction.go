package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/tracker"
)

type CreateTransaction struct {
	UserID      uuid.UUID
	GoalID      uuid.NullUUID
	Amount      int64
	Type        transaction.Type
	Category    string
	Date        time.Time
	Description string

	Result *transaction.Transaction
}

func (c *CreateTransaction) ActionName() string { return "CreateTransaction" }

func (c *CreateTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	if c.GoalID.Valid {
		if _, err := ownedGoal(ctx, writer, c.UserID, c.GoalID.UUID); err != nil {
			return err
		}
	}

	storageCreate := &transaction.TransactionCreate{
		UserID:      c.UserID,
		GoalID:      c.GoalID,
		Amount:      c.Amount,
		Type:        c.Type,
		Category:    c.Category,
		Date:        c.Date,
		Description: c.Description,
	}

	next := tracker.EffectOf(&transaction.Transaction{GoalID: c.GoalID, Type: c.Type, Amount: c.Amount})
	if err := tracker.Propagate(ctx, writer.Goals, nil, next); err != nil {
		return err
	}

	created, err := writer.Transactions.Insert(ctx, storageCreate)
	if err != nil {
		return err
	}

	c.Result = created
	return nil
}
