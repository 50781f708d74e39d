package transaction

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

const tableName = "transactions"

var _ IReader = (*Reader)(nil)

type row struct {
	ID          uuid.UUID     `db:"id"`
	UserID      uuid.UUID     `db:"user_id"`
	GoalID      uuid.NullUUID `db:"goal_id"`
	Amount      int64         `db:"amount"`
	Type        string        `db:"type"`
	Category    string        `db:"category"`
	Date        time.Time     `db:"date"`
	Description string        `db:"description"`
	CreatedAt   time.Time     `db:"created_at"`
}

func rowToTransaction(r row) *Transaction {
	return &Transaction{
		ID:          r.ID,
		UserID:      r.UserID,
		GoalID:      r.GoalID,
		Amount:      r.Amount,
		Type:        Type(r.Type),
		Category:    r.Category,
		Date:        r.Date,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func selectColumns() bob.Mod[*dialect.SelectQuery] {
	return sm.Columns("id", "user_id", "goal_id", "amount", "type", "category", "date", "description", "created_at")
}

func whereMods(filter *Filter) []bob.Mod[*dialect.SelectQuery] {
	var queryMods []bob.Mod[*dialect.SelectQuery]
	if filter == nil {
		return queryMods
	}
	if filter.UserID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("user_id").EQ(psql.Arg(*filter.UserID))))
	}
	if filter.GoalID != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("goal_id").EQ(psql.Arg(*filter.GoalID))))
	}
	if filter.Type != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("type").EQ(psql.Arg(string(*filter.Type)))))
	}
	if filter.Category != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("category").EQ(psql.Arg(*filter.Category))))
	}
	if filter.DateFrom != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("date").GTE(psql.Arg(*filter.DateFrom))))
	}
	if filter.DateTo != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("date").LTE(psql.Arg(*filter.DateTo))))
	}
	if filter.DateBefore != nil {
		queryMods = append(queryMods, sm.Where(psql.Quote("date").LT(psql.Arg(*filter.DateBefore))))
	}
	return queryMods
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// FindByID retrieves a transaction by primary key.
func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return r.findByID(ctx, id)
}

func (r *Reader) findByID(ctx context.Context, id uuid.UUID, extra ...bob.Mod[*dialect.SelectQuery]) (*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		selectColumns(),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	queryMods = append(queryMods, extra...)

	found, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}
	return rowToTransaction(found), nil
}

// List returns transactions matching the filter, newest first. Nil filter returns all.
func (r *Reader) List(ctx context.Context, filter *Filter) ([]*Transaction, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		selectColumns(),
		sm.From(tableName),
	}
	queryMods = append(queryMods, whereMods(filter)...)
	queryMods = append(queryMods,
		sm.OrderBy("date").Desc(),
		sm.OrderBy("created_at").Desc(),
		sm.OrderBy("id").Desc(),
	)
	if filter != nil {
		if filter.Limit > 0 {
			queryMods = append(queryMods, sm.Limit(filter.Limit))
		}
		if filter.Offset > 0 {
			queryMods = append(queryMods, sm.Offset(filter.Offset))
		}
	}

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}

	result := make([]*Transaction, len(rows))
	for i, found := range rows {
		result[i] = rowToTransaction(found)
	}
	return result, nil
}

// SumAmount totals the amount of every matching transaction.
func (r *Reader) SumAmount(ctx context.Context, filter *Filter) (int64, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(psql.Raw("COALESCE(SUM(amount), 0)")),
		sm.From(tableName),
	}
	queryMods = append(queryMods, whereMods(filter)...)

	total, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.SingleColumnMapper[int64])
	if err != nil {
		return 0, dberr.Translate(err)
	}
	return total, nil
}

// SumByCategory totals matching transactions per category, largest first.
func (r *Reader) SumByCategory(ctx context.Context, filter *Filter) ([]*CategoryTotal, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns("category", psql.Raw("COALESCE(SUM(amount), 0) AS total")),
		sm.From(tableName),
	}
	queryMods = append(queryMods, whereMods(filter)...)
	queryMods = append(queryMods,
		sm.GroupBy("category"),
		sm.OrderBy("total").Desc(),
		sm.OrderBy("category").Asc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[CategoryTotal]())
	if err != nil {
		return nil, dberr.Translate(err)
	}

	result := make([]*CategoryTotal, len(rows))
	for i := range rows {
		result[i] = &rows[i]
	}
	return result, nil
}
