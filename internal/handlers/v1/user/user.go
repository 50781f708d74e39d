package user

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	userstore "github.com/carson-networks/ledger-server/internal/storage/user"
)

type User struct {
	ID        string `json:"id" doc:"User UUID"`
	Name      string `json:"name" doc:"Display name"`
	Email     string `json:"email" doc:"Notification address"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

func toUser(u *userstore.User) User {
	return User{ID: u.ID.String(), Name: u.Name, Email: u.Email, CreatedAt: common.FormatTime(u.CreatedAt)}
}

type CreateUserBody struct {
	Name  string `json:"name" required:"true" minLength:"1" doc:"Display name"`
	Email string `json:"email" required:"true" format:"email" doc:"Notification address"`
}

type CreateUserInput struct {
	Body CreateUserBody
}

type CreateUserOutput struct {
	Status int `json:"status" doc:"HTTP status"`
	Body   User
}

type GetUserInput struct {
	ID string `path:"id" doc:"User UUID"`
}

type UserOutput struct {
	Body User
}

type userService interface {
	CreateUser(ctx context.Context, name, email string) (*userstore.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*userstore.User, error)
}

// Handler serves /v1/users. Users are the recipients of threshold alerts.
type Handler struct {
	UserService userService
}

func NewHandler(svc userService) *Handler {
	return &Handler{UserService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-user",
		Method:        http.MethodPost,
		Path:          "/v1/users",
		Summary:       "Create user",
		Tags:          []string{"Users"},
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "get-user",
		Method:      http.MethodGet,
		Path:        "/v1/users/{id}",
		Summary:     "Get user",
		Tags:        []string{"Users"},
	}, h.get)
}

func (h *Handler) create(ctx context.Context, input *CreateUserInput) (*CreateUserOutput, error) {
	created, err := h.UserService.CreateUser(ctx, input.Body.Name, input.Body.Email)
	if err != nil {
		return nil, common.Error(err, "failed to create user")
	}
	return &CreateUserOutput{Status: http.StatusCreated, Body: toUser(created)}, nil
}

func (h *Handler) get(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	id, err := common.ParseID(input.ID, "id")
	if err != nil {
		return nil, err
	}

	found, err := h.UserService.GetUser(ctx, id)
	if err != nil {
		return nil, common.Error(err, "failed to get user")
	}
	return &UserOutput{Body: toUser(found)}, nil
}
