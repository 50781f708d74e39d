package goal

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Goal represents a savings goal. Version increments on every write and
// guards the balance against lost updates.
type Goal struct {
	ID                  uuid.UUID
	UserID              uuid.UUID
	Name                string
	TargetAmount        decimal.Decimal
	CurrentAmount       decimal.Decimal
	Category            string
	Deadline            time.Time
	Status              Status
	MilestoneNotified   bool
	AchievementNotified bool
	Version             int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// GoalCreate is the input for creating a new goal. New goals start active with a zero balance.
type GoalCreate struct {
	UserID       uuid.UUID
	Name         string
	TargetAmount decimal.Decimal
	Category     string
	Deadline     time.Time
}

// Filter specifies filters for listing goals.
// Notifiable selects goals the goal pass still has to look at: active ones,
// and completed ones whose achievement was not announced yet.
type Filter struct {
	UserID     *uuid.UUID
	Statuses   []Status
	Notifiable bool
}

func (f *Filter) Matches(g *Goal) bool {
	if f == nil {
		return true
	}
	if f.UserID != nil && g.UserID != *f.UserID {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if g.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Notifiable {
		if g.Status != StatusActive && !(g.Status == StatusCompleted && !g.AchievementNotified) {
			return false
		}
	}
	return true
}

// IReader defines the read side of goal storage.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Goal, error)
	// List returns matching goals ordered by creation time.
	List(ctx context.Context, filter *Filter) ([]*Goal, error)
}

// IWriter defines goal storage operations available inside a unit of work.
// Update and Delete are compare-and-set on Version and return
// apperr.ErrConcurrentUpdateConflict when the stored version moved on.
type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Goal, error)
	Insert(ctx context.Context, create *GoalCreate) (*Goal, error)
	// Update persists g and bumps g.Version on success.
	Update(ctx context.Context, g *Goal) error
	Delete(ctx context.Context, id uuid.UUID, version int64) error
}
