package budget

import (
	"context"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dm"
	"github.com/stephenafamo/bob/dialect/psql/im"
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

func (w *Writer) Insert(ctx context.Context, create *BudgetCreate) (*Budget, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	q := psql.Insert(
		im.Into(tableName, "id", "user_id", "category", "month", "year", "amount"),
		im.Values(
			psql.Arg(id),
			psql.Arg(create.UserID),
			psql.Arg(create.Category),
			psql.Arg(create.Month),
			psql.Arg(create.Year),
			psql.Arg(create.Amount),
		),
		im.Returning(columns...),
	)
	inserted, err := bob.One(ctx, w.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}
	return rowToBudget(inserted), nil
}

func (w *Writer) Update(ctx context.Context, b *Budget) error {
	q := psql.Update(
		um.Table(tableName),
		um.SetCol("category").ToArg(b.Category),
		um.SetCol("month").ToArg(b.Month),
		um.SetCol("year").ToArg(b.Year),
		um.SetCol("amount").ToArg(b.Amount),
		um.Where(psql.Quote("id").EQ(psql.Arg(b.ID))),
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
