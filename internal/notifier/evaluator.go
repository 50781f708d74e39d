package notifier

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/ledger-server/internal/gateway"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/budget"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/user"
	"github.com/carson-networks/ledger-server/internal/tracker"
)

var (
	hundred        = decimal.NewFromInt(100)
	warningPercent = decimal.NewFromInt(90)
	halfway        = decimal.NewFromInt(50)
)

type actionProcessor interface {
	Process(ctx context.Context, action actions.IAction) error
}

type spendAggregator interface {
	GetSpent(ctx context.Context, userID uuid.UUID, category string, month, year int) (int64, error)
}

// PassResult counts what one evaluation pass did.
type PassResult struct {
	Checked int64
	Sent    int64
	Failed  int64
	Skipped int64
}

type counters struct {
	checked, sent, failed, skipped atomic.Int64
}

func (c *counters) result() *PassResult {
	return &PassResult{
		Checked: c.checked.Load(),
		Sent:    c.sent.Load(),
		Failed:  c.failed.Load(),
		Skipped: c.skipped.Load(),
	}
}

// Evaluator runs the budget and goal threshold passes. Users are evaluated in
// parallel up to the configured limit; entities of one user run in order.
type Evaluator struct {
	storage  *storage.Storage
	operator actionProcessor
	spend    spendAggregator
	sender   gateway.Sender
	location *time.Location
	parallel int
	logger   *logrus.Logger
	now      func() time.Time
}

func NewEvaluator(
	store *storage.Storage,
	op actionProcessor,
	spend spendAggregator,
	sender gateway.Sender,
	loc *time.Location,
	parallel int,
	logger *logrus.Logger,
) *Evaluator {
	if loc == nil {
		loc = time.UTC
	}
	if parallel < 1 {
		parallel = 1
	}
	return &Evaluator{
		storage:  store,
		operator: op,
		spend:    spend,
		sender:   sender,
		location: loc,
		parallel: parallel,
		logger:   logger,
		now:      time.Now,
	}
}

// forEachUser runs fn once per user group, bounded by e.parallel. fn never
// fails the group, so one user's problems stay with that user.
func forEachUser[T any](ctx context.Context, e *Evaluator, groups map[uuid.UUID][]*T, fn func(ctx context.Context, u *user.User, items []*T)) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)

	for userID, items := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := e.storage.Reader.Users.FindByID(ctx, userID)
			if err != nil {
				e.logger.WithError(err).WithField("userID", userID).Warn("Notifier.User.NotFound")
				return nil
			}
			fn(ctx, u, items)
			return nil
		})
	}
	return g.Wait()
}

// BudgetPass alerts on every budget of the current month at or above 90% of its cap.
// Alerts are not suppressed across passes.
func (e *Evaluator) BudgetPass(ctx context.Context) (*PassResult, error) {
	now := e.now().In(e.location)
	month, year := int(now.Month()), now.Year()

	budgets, err := e.storage.Reader.Budgets.List(ctx, &budget.Filter{Month: &month, Year: &year})
	if err != nil {
		e.logger.WithError(err).Error("Notifier.BudgetPass.Error")
		return nil, err
	}

	groups := make(map[uuid.UUID][]*budget.Budget)
	for _, b := range budgets {
		groups[b.UserID] = append(groups[b.UserID], b)
	}

	var c counters
	err = forEachUser(ctx, e, groups, func(ctx context.Context, u *user.User, items []*budget.Budget) {
		for _, b := range items {
			c.checked.Add(1)
			e.checkBudget(ctx, u, b, &c)
		}
	})

	result := c.result()
	e.logger.WithFields(logrus.Fields{
		"month":   month,
		"year":    year,
		"checked": result.Checked,
		"sent":    result.Sent,
		"failed":  result.Failed,
		"skipped": result.Skipped,
	}).Info("Notifier.BudgetPass.Complete")
	return result, err
}

func (e *Evaluator) checkBudget(ctx context.Context, u *user.User, b *budget.Budget, c *counters) {
	log := e.logger.WithFields(logrus.Fields{"budgetID": b.ID, "userID": u.ID, "category": b.Category})

	if b.Amount <= 0 {
		log.Warn("Notifier.BudgetPass.NonPositiveAmount")
		c.skipped.Add(1)
		return
	}

	spent, err := e.spend.GetSpent(ctx, b.UserID, b.Category, b.Month, b.Year)
	if err != nil {
		log.WithError(err).Error("Notifier.BudgetPass.SpentError")
		c.failed.Add(1)
		return
	}

	pct := decimal.NewFromInt(spent).Mul(hundred).Div(decimal.NewFromInt(b.Amount))

	var msg message
	switch {
	case pct.GreaterThanOrEqual(hundred):
		msg = budgetExceeded(u, b, spent)
	case pct.GreaterThanOrEqual(warningPercent):
		msg = budgetWarning(u, b, spent, pct)
	default:
		return
	}

	e.send(ctx, log, u, msg, c)
}

// GoalPass announces achieved goals once and halfway milestones once.
func (e *Evaluator) GoalPass(ctx context.Context) (*PassResult, error) {
	goals, err := e.storage.Reader.Goals.List(ctx, &goal.Filter{Notifiable: true})
	if err != nil {
		e.logger.WithError(err).Error("Notifier.GoalPass.Error")
		return nil, err
	}

	groups := make(map[uuid.UUID][]*goal.Goal)
	for _, g := range goals {
		groups[g.UserID] = append(groups[g.UserID], g)
	}

	var c counters
	err = forEachUser(ctx, e, groups, func(ctx context.Context, u *user.User, items []*goal.Goal) {
		for _, g := range items {
			c.checked.Add(1)
			e.checkGoal(ctx, u, g, &c)
		}
	})

	result := c.result()
	e.logger.WithFields(logrus.Fields{
		"totalGoals": len(goals),
		"checked":    result.Checked,
		"sent":       result.Sent,
		"failed":     result.Failed,
	}).Info("Notifier.GoalPass.Complete")
	return result, err
}

func (e *Evaluator) checkGoal(ctx context.Context, u *user.User, g *goal.Goal, c *counters) {
	log := e.logger.WithFields(logrus.Fields{"goalID": g.ID, "userID": u.ID})
	pct := tracker.Percent(g)

	switch {
	case pct.GreaterThanOrEqual(hundred) || g.Status == goal.StatusCompleted:
		// The latch commits before the send; a failed send is not retried.
		mark := &actions.MarkGoalAchieved{GoalID: g.ID}
		if err := e.operator.Process(ctx, mark); err != nil {
			log.WithError(err).Error("Notifier.GoalPass.MarkAchievedError")
			c.failed.Add(1)
			return
		}
		if !mark.Announce {
			c.skipped.Add(1)
			return
		}
		e.send(ctx, log, u, goalAchieved(u, mark.Result), c)

	case pct.GreaterThanOrEqual(halfway) && !g.MilestoneNotified:
		if !e.send(ctx, log, u, goalMilestone(u, g, pct), c) {
			return
		}
		if err := e.operator.Process(ctx, &actions.MarkGoalMilestone{GoalID: g.ID}); err != nil {
			log.WithError(err).Error("Notifier.GoalPass.MarkMilestoneError")
		}
	}
}

func (e *Evaluator) send(ctx context.Context, log *logrus.Entry, u *user.User, msg message, c *counters) bool {
	if err := e.sender.Send(ctx, u.Email, msg.Subject, msg.Body); err != nil {
		log.WithError(err).WithField("subject", msg.Subject).Error("Notifier.Send.Error")
		c.failed.Add(1)
		return false
	}
	c.sent.Add(1)
	return true
}
