package transaction

import (
	"context"

	"github.com/gofrs/uuid/v5"
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

// FindByIDForUpdate reads the transaction and locks its row until the unit of work ends.
func (w *Writer) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return w.findByID(ctx, id, sm.ForUpdate())
}

// Insert creates a new transaction and returns the stored record.
func (w *Writer) Insert(ctx context.Context, create *TransactionCreate) (*Transaction, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(tableName, "id", "user_id", "goal_id", "amount", "type", "category", "date", "description"),
		im.Values(
			psql.Arg(id),
			psql.Arg(create.UserID),
			psql.Arg(create.GoalID),
			psql.Arg(create.Amount),
			psql.Arg(string(create.Type)),
			psql.Arg(create.Category),
			psql.Arg(create.Date),
			psql.Arg(create.Description),
		),
		im.Returning("id", "user_id", "goal_id", "amount", "type", "category", "date", "description", "created_at"),
	)
	inserted, err := bob.One(ctx, w.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}
	return rowToTransaction(inserted), nil
}

// Update overwrites the mutable fields of t.
func (w *Writer) Update(ctx context.Context, t *Transaction) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("goal_id").ToArg(t.GoalID),
		um.SetCol("amount").ToArg(t.Amount),
		um.SetCol("type").ToArg(string(t.Type)),
		um.SetCol("category").ToArg(t.Category),
		um.SetCol("date").ToArg(t.Date),
		um.SetCol("description").ToArg(t.Description),
		um.Where(psql.Quote("id").EQ(psql.Arg(t.ID))),
	)
	result, err := bob.Exec(ctx, w.exec, q)
	if err != nil {
		return dberr.Translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (w *Writer) Delete(ctx context.Context, id uuid.UUID) error {
	q := psql.Delete(
		dm.From(tableName),
		dm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	result, err := bob.Exec(ctx, w.exec, q)
	if err != nil {
		return dberr.Translate(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (w *Writer) ClearGoal(ctx context.Context, goalID uuid.UUID) (int64, error) {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("goal_id").ToArg(uuid.NullUUID{}),
		um.Where(psql.Quote("goal_id").EQ(psql.Arg(goalID))),
	)
	result, err := bob.Exec(ctx, w.exec, q)
	if err != nil {
		return 0, dberr.Translate(err)
	}
	return result.RowsAffected()
}
