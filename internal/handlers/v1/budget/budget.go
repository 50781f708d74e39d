package budget

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/service"
)

// Budget is the API response model. Spent is derived from the ledger on every read.
type Budget struct {
	ID        string `json:"id" doc:"Budget UUID"`
	Category  string `json:"category" doc:"Category label"`
	Month     int    `json:"month" doc:"Month 1-12"`
	Year      int    `json:"year" doc:"Year"`
	Amount    int64  `json:"amount" doc:"Monthly cap"`
	Spent     int64  `json:"spent" doc:"Expenses in the category during the month"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

func toBudget(b *service.Budget) Budget {
	return Budget{
		ID:        b.ID.String(),
		Category:  b.Category,
		Month:     b.Month,
		Year:      b.Year,
		Amount:    b.Amount,
		Spent:     b.Spent,
		CreatedAt: common.FormatTime(b.CreatedAt),
	}
}

type BudgetOutput struct {
	Body Budget
}

type CreateBudgetBody struct {
	Category string `json:"category" required:"true" minLength:"1" doc:"Category label"`
	Month    int    `json:"month" required:"true" minimum:"1" maximum:"12" doc:"Month 1-12"`
	Year     int    `json:"year" required:"true" minimum:"1970" doc:"Year"`
	Amount   int64  `json:"amount" required:"true" minimum:"1" doc:"Monthly cap"`
}

type CreateBudgetInput struct {
	common.Identity
	Body CreateBudgetBody
}

type CreateBudgetOutput struct {
	Status int `json:"status" doc:"HTTP status"`
	Body   Budget
}

type BudgetIDInput struct {
	common.Identity
	ID string `path:"id" doc:"Budget UUID"`
}

func (in *BudgetIDInput) parse() (userID, id uuid.UUID, err error) {
	if userID, err = in.Caller(); err != nil {
		return
	}
	id, err = common.ParseID(in.ID, "id")
	return
}

type UpdateBudgetBody struct {
	Category *string `json:"category,omitempty" minLength:"1" doc:"Category label"`
	Month    *int    `json:"month,omitempty" minimum:"1" maximum:"12" doc:"Month 1-12"`
	Year     *int    `json:"year,omitempty" minimum:"1970" doc:"Year"`
	Amount   *int64  `json:"amount,omitempty" minimum:"1" doc:"Monthly cap"`
}

type UpdateBudgetInput struct {
	BudgetIDInput
	Body UpdateBudgetBody
}

type DeleteBudgetOutput struct {
	Status int `json:"status" doc:"HTTP status"`
}

type ListBudgetsInput struct {
	common.Identity
	Month int `query:"month" minimum:"0" maximum:"12" doc:"Only this month"`
	Year  int `query:"year" minimum:"0" doc:"Only this year"`
}

type ListBudgetsBody struct {
	Budgets []Budget `json:"budgets" doc:"The caller's budgets with spend"`
}

type ListBudgetsOutput struct {
	Body ListBudgetsBody
}

type SpentInput struct {
	common.Identity
	Category string `query:"category" required:"true" minLength:"1" doc:"Category label"`
	Month    int    `query:"month" required:"true" minimum:"1" maximum:"12" doc:"Month 1-12"`
	Year     int    `query:"year" required:"true" minimum:"1970" doc:"Year"`
}

type SpentBody struct {
	Category string `json:"category" doc:"Category label"`
	Month    int    `json:"month" doc:"Month 1-12"`
	Year     int    `json:"year" doc:"Year"`
	Spent    int64  `json:"spent" doc:"Expenses in the category during the month"`
}

type SpentOutput struct {
	Body SpentBody
}

type budgetService interface {
	CreateBudget(ctx context.Context, input service.BudgetInput) (*service.Budget, error)
	GetBudget(ctx context.Context, userID, id uuid.UUID) (*service.Budget, error)
	ListBudgets(ctx context.Context, userID uuid.UUID, month, year *int) ([]service.Budget, error)
	UpdateBudget(ctx context.Context, userID, id uuid.UUID, patch service.BudgetPatch) (*service.Budget, error)
	DeleteBudget(ctx context.Context, userID, id uuid.UUID) error
	GetSpent(ctx context.Context, userID uuid.UUID, category string, month, year int) (int64, error)
}

// Handler serves /v1/budgets.
type Handler struct {
	BudgetService budgetService
}

func NewHandler(svc budgetService) *Handler {
	return &Handler{BudgetService: svc}
}

func (h *Handler) Register(api huma.API) {
	tags := []string{"Budgets"}

	huma.Register(api, huma.Operation{
		OperationID:   "create-budget",
		Method:        http.MethodPost,
		Path:          "/v1/budgets",
		Summary:       "Create budget",
		Description:   "Creates a monthly cap. One budget per user, category and month.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "list-budgets",
		Method:      http.MethodGet,
		Path:        "/v1/budgets",
		Summary:     "List budgets",
		Tags:        tags,
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "get-budget-spent",
		Method:      http.MethodGet,
		Path:        "/v1/budgets/spent",
		Summary:     "Get spend",
		Description: "Sums expenses for a category and month.",
		Tags:        tags,
	}, h.spent)

	huma.Register(api, huma.Operation{
		OperationID: "get-budget",
		Method:      http.MethodGet,
		Path:        "/v1/budgets/{id}",
		Summary:     "Get budget",
		Tags:        tags,
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "update-budget",
		Method:      http.MethodPatch,
		Path:        "/v1/budgets/{id}",
		Summary:     "Update budget",
		Tags:        tags,
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-budget",
		Method:        http.MethodDelete,
		Path:          "/v1/budgets/{id}",
		Summary:       "Delete budget",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *Handler) create(ctx context.Context, input *CreateBudgetInput) (*CreateBudgetOutput, error) {
	userID, err := input.Caller()
	if err != nil {
		return nil, err
	}

	created, err := h.BudgetService.CreateBudget(ctx, service.BudgetInput{
		UserID:   userID,
		Category: input.Body.Category,
		Month:    input.Body.Month,
		Year:     input.Body.Year,
		Amount:   input.Body.Amount,
	})
	if err != nil {
		return nil, common.Error(err, "failed to create budget")
	}
	return &CreateBudgetOutput{Status: http.StatusCreated, Body: toBudget(created)}, nil
}

func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func (h *Handler) list(ctx context.Context, input *ListBudgetsInput) (*ListBudgetsOutput, error) {
	userID, err := input.Caller()
	if err != nil {
		return nil, err
	}

	budgets, err := h.BudgetService.ListBudgets(ctx, userID, optionalInt(input.Month), optionalInt(input.Year))
	if err != nil {
		return nil, common.Error(err, "failed to list budgets")
	}

	out := &ListBudgetsOutput{Body: ListBudgetsBody{Budgets: make([]Budget, len(budgets))}}
	for i := range budgets {
		out.Body.Budgets[i] = toBudget(&budgets[i])
	}
	return out, nil
}

func (h *Handler) spent(ctx context.Context, input *SpentInput) (*SpentOutput, error) {
	userID, err := input.Caller()
	if err != nil {
		return nil, err
	}

	spent, err := h.BudgetService.GetSpent(ctx, userID, input.Category, input.Month, input.Year)
	if err != nil {
		return nil, common.Error(err, "failed to compute spend")
	}
	return &SpentOutput{Body: SpentBody{
		Category: input.Category,
		Month:    input.Month,
		Year:     input.Year,
		Spent:    spent,
	}}, nil
}

func (h *Handler) get(ctx context.Context, input *BudgetIDInput) (*BudgetOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}

	found, err := h.BudgetService.GetBudget(ctx, userID, id)
	if err != nil {
		return nil, common.Error(err, "failed to get budget")
	}
	return &BudgetOutput{Body: toBudget(found)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateBudgetInput) (*BudgetOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}

	updated, err := h.BudgetService.UpdateBudget(ctx, userID, id, service.BudgetPatch{
		Category: input.Body.Category,
		Month:    input.Body.Month,
		Year:     input.Body.Year,
		Amount:   input.Body.Amount,
	})
	if err != nil {
		return nil, common.Error(err, "failed to update budget")
	}
	return &BudgetOutput{Body: toBudget(updated)}, nil
}

func (h *Handler) delete(ctx context.Context, input *BudgetIDInput) (*DeleteBudgetOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}

	if err := h.BudgetService.DeleteBudget(ctx, userID, id); err != nil {
		return nil, common.Error(err, "failed to delete budget")
	}
	return &DeleteBudgetOutput{Status: http.StatusNoContent}, nil
}
