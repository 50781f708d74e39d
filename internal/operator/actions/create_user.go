package actions

import (
	"context"

	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/user"
)

type CreateUser struct {
	Name  string
	Email string

	Result *user.User
}

func (c *CreateUser) ActionName() string { return "CreateUser" }

func (c *CreateUser) Perform(ctx context.Context, writer *storage.Writer) error {
	created, err := writer.Users.Insert(ctx, &user.UserCreate{Name: c.Name, Email: c.Email})
	if err != nil {
		return err
	}
	c.Result = created
	return nil
}
