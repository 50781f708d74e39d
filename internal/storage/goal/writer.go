package goal

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage/dberr"
)

var _ IWriter = (*Writer)(nil)

type Writer struct {
	Reader
}

func NewWriter(exec bob.Executor) *Writer {
	return &Writer{
		Reader: Reader{
			exec: exec,
		},
	}
}

// FindByIDForUpdate reads the goal and holds its row lock until the unit of work ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Goal, error) {
	return w.findByID(ctx, id, sm.ForUpdate())
}

func (w *Writer) Insert(ctx context.Context, create *GoalCreate) (*Goal, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(tableName, "id", "user_id", "name", "target_amount", "current_amount", "category", "deadline", "status"),
		im.Values(
			psql.Arg(id),
			psql.Arg(create.UserID),
			psql.Arg(create.Name),
			psql.Arg(create.TargetAmount),
			psql.Arg(decimal.Zero),
			psql.Arg(create.Category),
			psql.Arg(create.Deadline),
			psql.Arg(string(StatusActive)),
		),
		im.Returning(columns...),
	)
	inserted, err := bob.One(ctx, w.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}
	return rowToGoal(inserted), nil
}

func (w *Writer) Update(ctx context.Context, g *Goal) error {
	now := time.Now().UTC()
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("name").ToArg(g.Name),
		um.SetCol("target_amount").ToArg(g.TargetAmount),
		um.SetCol("current_amount").ToArg(g.CurrentAmount),
		um.SetCol("category").ToArg(g.Category),
		um.SetCol("deadline").ToArg(g.Deadline),
		um.SetCol("status").ToArg(string(g.Status)),
		um.SetCol("milestone_notified").ToArg(g.MilestoneNotified),
		um.SetCol("achievement_notified").ToArg(g.AchievementNotified),
		um.SetCol("version").ToArg(g.Version+1),
		um.SetCol("updated_at").ToArg(now),
		um.Where(psql.Quote("id").EQ(psql.Arg(g.ID))),
		um.Where(psql.Quote("version").EQ(psql.Arg(g.Version))),
	)
	if err := w.execCompareAndSet(ctx, q, g.ID); err != nil {
		return err
	}
	g.Version++
	g.UpdatedAt = now
	return nil
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID, version int64) error {
	q := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
		dm.Where(psql.Quote("version").EQ(psql.Arg(version))),
	)
	return w.execCompareAndSet(ctx, q, id)
}

// execCompareAndSet runs a version-guarded statement. When nothing matched it
// tells a missing goal apart from a stale version.
func (w *Writer) execCompareAndSet(ctx context.Context, q bob.Query, id uuid.UUID) error {
	result, err := bob.Exec(ctx, w.exec, q)
	if err != nil {
		return dberr.Translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	if _, err := w.FindByID(ctx, id); err != nil {
		return err
	}
	return apperr.ErrConcurrentUpdateConflict
}
