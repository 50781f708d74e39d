package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/user"
)

type UserService struct {
	storage  *storage.Storage
	operator actionProcessor
}

func NewUserService(store *storage.Storage, op actionProcessor) *UserService {
	return &UserService{storage: store, operator: op}
}

func (s *UserService) CreateUser(ctx context.Context, name, email string) (*user.User, error) {
	action := &actions.CreateUser{Name: name, Email: email}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.storage.Reader.Users.FindByID(ctx, id)
}
