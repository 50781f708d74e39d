package actions

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
)

// IAction is one unit of work. Perform may run more than once when a goal
// conflict forces a retry, so it must derive everything from writer and
// only set its result fields on success.
type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// ownedGoal loads the goal, reporting a goal of another user as not found.
func ownedGoal(ctx context.Context, writer *storage.Writer, userID, goalID uuid.UUID) (*goal.Goal, error) {
	g, err := writer.Goals.FindByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	return g, nil
}
