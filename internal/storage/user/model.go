package user

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
)

// User is the owner of ledger entries and the recipient of alerts.
type User struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

type UserCreate struct {
	Name  string
	Email string
}

type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type IWriter interface {
	IReader
	Insert(ctx context.Context, create *UserCreate) (*User, error)
}
