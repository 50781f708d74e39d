package memory

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/storage/user"
)

var _ user.IWriter = (*userTable)(nil)

type userTable struct {
	tx *Tx
}

func (u *userTable) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	found, ok := lookup(u.tx, u.tx.overlay.users, u.tx.store.committed.users, id)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return found, nil
}

func (u *userTable) Insert(_ context.Context, create *user.UserCreate) (*user.User, error) {
	if err := u.tx.writable(); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	stored := &user.User{ID: id, Name: create.Name, Email: create.Email, CreatedAt: now()}
	u.tx.overlay.users[id] = stored

	c := *stored
	return &c, nil
}
