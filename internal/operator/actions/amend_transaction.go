package actions

import (
	"context"
	"time"

	"github.com/aarondl/opt/omitnull"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
	"github.com/carson-networks/ledger-server/internal/tracker"
)

// TransactionPatch holds the fields to change. Nil leaves a field as is.
// GoalID is tri-state: unset keeps the link, null unlinks, a value relinks.
type TransactionPatch struct {
	GoalID      omitnull.Val[uuid.UUID]
	Amount      *int64
	Type        *transaction.Type
	Category    *string
	Date        *time.Time
	Description *string
}

func (p *TransactionPatch) applyTo(t *transaction.Transaction) {
	if !p.GoalID.IsUnset() {
		id, ok := p.GoalID.Get()
		t.GoalID = uuid.NullUUID{UUID: id, Valid: ok}
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
}

type AmendTransaction struct {
	UserID uuid.UUID
	ID     uuid.UUID
	Patch  TransactionPatch

	Result *transaction.Transaction
}

func (a *AmendTransaction) ActionName() string { return "AmendTransaction" }

func (a *AmendTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	current, err := writer.Transactions.FindByIDForUpdate(ctx, a.ID)
	if err != nil {
		return err
	}
	if current.UserID != a.UserID {
		return apperr.ErrNotFound
	}

	amended := *current
	a.Patch.applyTo(&amended)
	if amended.GoalID.Valid && amended.GoalID != current.GoalID {
		if _, err := ownedGoal(ctx, writer, a.UserID, amended.GoalID.UUID); err != nil {
			return err
		}
	}

	if err := tracker.Propagate(ctx, writer.Goals, tracker.EffectOf(current), tracker.EffectOf(&amended)); err != nil {
		return err
	}

	if err := writer.Transactions.Update(ctx, &amended); err != nil {
		return err
	}

	a.Result = &amended
	return nil
}
