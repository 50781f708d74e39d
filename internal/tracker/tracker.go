// Package tracker keeps a goal's accumulated amount in step with the income
// transactions linked to it. Every ledger change is expressed as reversing
// the prior effect and applying the new one inside the same unit of work.
package tracker

import (
	"bytes"
	"context"
	"errors"
	"sort"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/storage/transaction"
)

// Effect is the contribution one transaction makes to one goal.
type Effect struct {
	GoalID uuid.UUID
	Amount int64
}

// EffectOf returns the effect of t, or nil when t cannot move a goal balance.
func EffectOf(t *transaction.Transaction) *Effect {
	if t == nil || t.Type != transaction.TypeIncome || !t.GoalID.Valid {
		return nil
	}
	return &Effect{GoalID: t.GoalID.UUID, Amount: t.Amount}
}

// Eligible reports whether effects flow into g. Cancelled goals stop accumulating.
func Eligible(g *goal.Goal) bool {
	return g.Status != goal.StatusCancelled
}

// Apply adds amount to the goal and completes it once the target is reached.
// The completion only ever happens from active.
func Apply(g *goal.Goal, amount int64) bool {
	if !Eligible(g) {
		return false
	}
	g.CurrentAmount = g.CurrentAmount.Add(decimal.NewFromInt(amount))
	if g.Status == goal.StatusActive && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = goal.StatusCompleted
	}
	return true
}

// Reverse removes amount from the goal. It never moves a completed goal back to active.
func Reverse(g *goal.Goal, amount int64) bool {
	if !Eligible(g) {
		return false
	}
	g.CurrentAmount = g.CurrentAmount.Sub(decimal.NewFromInt(amount))
	// Every reversal undoes an earlier apply, so consistent data never goes
	// below zero here. The floor only mirrors the current_amount >= 0 column
	// check; once it triggers, reverse followed by apply is no longer an identity.
	if g.CurrentAmount.IsNegative() {
		g.CurrentAmount = decimal.Zero
	}
	return true
}

// Propagate reverses prior and applies next against the goals they target.
// Goals are locked in ascending id order and each changed goal is written once.
// A prior goal that no longer exists is skipped; a missing next goal is ErrNotFound.
func Propagate(ctx context.Context, goals goal.IWriter, prior, next *Effect) error {
	if prior == nil && next == nil {
		return nil
	}
	if prior != nil && next != nil && *prior == *next {
		return nil
	}

	ids := make([]uuid.UUID, 0, 2)
	if prior != nil {
		ids = append(ids, prior.GoalID)
	}
	if next != nil && (prior == nil || next.GoalID != prior.GoalID) {
		ids = append(ids, next.GoalID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i].Bytes(), ids[j].Bytes()) < 0
	})

	loaded := make(map[uuid.UUID]*goal.Goal, len(ids))
	for _, id := range ids {
		g, err := goals.FindByIDForUpdate(ctx, id)
		if errors.Is(err, apperr.ErrNotFound) && (next == nil || id != next.GoalID) {
			continue
		}
		if err != nil {
			return err
		}
		loaded[id] = g
	}

	changed := make(map[uuid.UUID]bool, len(ids))
	if prior != nil {
		if g, ok := loaded[prior.GoalID]; ok && Reverse(g, prior.Amount) {
			changed[g.ID] = true
		}
	}
	if next != nil {
		if Apply(loaded[next.GoalID], next.Amount) {
			changed[next.GoalID] = true
		}
	}

	for _, id := range ids {
		if !changed[id] {
			continue
		}
		if err := goals.Update(ctx, loaded[id]); err != nil {
			return err
		}
	}
	return nil
}

// Progress is the read projection of a goal.
type Progress struct {
	Current decimal.Decimal
	Target  decimal.Decimal
	Percent decimal.Decimal
	Status  goal.Status
}

// Percent returns current/target*100, or zero for a zero target.
func Percent(g *goal.Goal) decimal.Decimal {
	if g.TargetAmount.IsZero() {
		return decimal.Zero
	}
	return g.CurrentAmount.Mul(decimal.NewFromInt(100)).Div(g.TargetAmount)
}

func ProgressOf(g *goal.Goal) Progress {
	return Progress{
		Current: g.CurrentAmount,
		Target:  g.TargetAmount,
		Percent: Percent(g).Round(2),
		Status:  g.Status,
	}
}
