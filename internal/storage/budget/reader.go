package budget

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/dberr"
)

const tableName = "budgets"

var _ IReader = (*Reader)(nil)

type row struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Category  string    `db:"category"`
	Month     int       `db:"month"`
	Year      int       `db:"year"`
	Amount    int64     `db:"amount"`
	CreatedAt time.Time `db:"created_at"`
}

var columns = []any{"id", "user_id", "category", "month", "year", "amount", "created_at"}

func rowToBudget(r row) *Budget {
	return &Budget{
		ID:        r.ID,
		UserID:    r.UserID,
		Category:  r.Category,
		Month:     r.Month,
		Year:      r.Year,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
	}
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Budget, error) {
	q := psql.Select(
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	)
	found, err := bob.One(ctx, r.exec, q, scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}
	return rowToBudget(found), nil
}

func (r *Reader) List(ctx context.Context, filter *Filter) ([]*Budget, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}
	if filter != nil {
		if filter.UserID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("user_id").EQ(psql.Arg(*filter.UserID))))
		}
		if filter.Category != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("category").EQ(psql.Arg(*filter.Category))))
		}
		if filter.Month != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("month").EQ(psql.Arg(*filter.Month))))
		}
		if filter.Year != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("year").EQ(psql.Arg(*filter.Year))))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy("year").Desc(),
		sm.OrderBy("month").Desc(),
		sm.OrderBy("category").Asc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}

	result := make([]*Budget, len(rows))
	for i, found := range rows {
		result[i] = rowToBudget(found)
	}
	return result, nil
}
