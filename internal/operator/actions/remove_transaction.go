package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/tracker"
)

type RemoveTransaction struct {
	UserID uuid.UUID
	ID     uuid.UUID
}

func (r *RemoveTransaction) ActionName() string { return "RemoveTransaction" }

func (r *RemoveTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	current, err := writer.Transactions.FindByIDForUpdate(ctx, r.ID)
	if err != nil {
		return err
	}
	if current.UserID != r.UserID {
		return apperr.ErrNotFound
	}

	if err := tracker.Propagate(ctx, writer.Goals, tracker.EffectOf(current), nil); err != nil {
		return err
	}

	return writer.Transactions.Delete(ctx, r.ID)
}
