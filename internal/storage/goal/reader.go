package goal

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/dialect"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/ledger-server/internal/storage/dberr"
)

const tableName = "goals"

var _ IReader = (*Reader)(nil)

type row struct {
	ID                  uuid.UUID       `db:"id"`
	UserID              uuid.UUID       `db:"user_id"`
	Name                string          `db:"name"`
	TargetAmount        decimal.Decimal `db:"target_amount"`
	CurrentAmount       decimal.Decimal `db:"current_amount"`
	Category            string          `db:"category"`
	Deadline            time.Time       `db:"deadline"`
	Status              string          `db:"status"`
	MilestoneNotified   bool            `db:"milestone_notified"`
	AchievementNotified bool            `db:"achievement_notified"`
	Version             int64           `db:"version"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
}

var columns = []any{
	"id", "user_id", "name", "target_amount", "current_amount", "category", "deadline",
	"status", "milestone_notified", "achievement_notified", "version", "created_at", "updated_at",
}

func rowToGoal(r row) *Goal {
	return &Goal{
		ID:                  r.ID,
		UserID:              r.UserID,
		Name:                r.Name,
		TargetAmount:        r.TargetAmount,
		CurrentAmount:       r.CurrentAmount,
		Category:            r.Category,
		Deadline:            r.Deadline,
		Status:              Status(r.Status),
		MilestoneNotified:   r.MilestoneNotified,
		AchievementNotified: r.AchievementNotified,
		Version:             r.Version,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func (r *Reader) FindByID(ctx context.Context, id uuid.UUID) (*Goal, error) {
	return r.findByID(ctx, id)
}

func (r *Reader) findByID(ctx context.Context, id uuid.UUID, extra ...bob.Mod[*dialect.SelectQuery]) (*Goal, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
		sm.Where(psql.Quote("id").EQ(psql.Arg(id))),
	}
	queryMods = append(queryMods, extra...)

	found, err := bob.One(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}
	return rowToGoal(found), nil
}

func (r *Reader) List(ctx context.Context, filter *Filter) ([]*Goal, error) {
	queryMods := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}
	if filter != nil {
		if filter.UserID != nil {
			queryMods = append(queryMods, sm.Where(psql.Quote("user_id").EQ(psql.Arg(*filter.UserID))))
		}
		if len(filter.Statuses) > 0 {
			queryMods = append(queryMods, sm.Where(statusIn(filter.Statuses)))
		}
		if filter.Notifiable {
			queryMods = append(queryMods, sm.Where(psql.Or(
				psql.Quote("status").EQ(psql.Arg(string(StatusActive))),
				psql.And(
					psql.Quote("status").EQ(psql.Arg(string(StatusCompleted))),
					psql.Quote("achievement_notified").EQ(psql.Arg(false)),
				),
			)))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy("created_at").Asc(),
		sm.OrderBy("id").Asc(),
	)

	rows, err := bob.All(ctx, r.exec, psql.Select(queryMods...), scan.StructMapper[row]())
	if err != nil {
		return nil, dberr.Translate(err)
	}

	result := make([]*Goal, len(rows))
	for i, found := range rows {
		result[i] = rowToGoal(found)
	}
	return result, nil
}

func statusIn(statuses []Status) bob.Expression {
	conditions := make([]bob.Expression, len(statuses))
	for i, s := range statuses {
		conditions[i] = psql.Quote("status").EQ(psql.Arg(string(s)))
	}
	return psql.Or(conditions...)
}
