package goal

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/service"
)

type CreateGoalBody struct {
	Name         string `json:"name" required:"true" minLength:"1" doc:"Goal name"`
	TargetAmount string `json:"targetAmount" required:"true" doc:"Positive decimal target"`
	Category     string `json:"category" required:"true" minLength:"1" doc:"Category label"`
	Deadline     string `json:"deadline" required:"true" doc:"RFC3339 deadline"`
}

type CreateGoalInput struct {
	common.Identity
	Body CreateGoalBody
}

type CreateGoalOutput struct {
	Status int `json:"status" doc:"HTTP status"`
	Body   Goal
}

type goalCreator interface {
	CreateGoal(ctx context.Context, input service.GoalInput) (*service.Goal, error)
}

// CreateGoalHandler handles POST /v1/goals.
type CreateGoalHandler struct {
	GoalService goalCreator
}

func NewCreateGoalHandler(svc goalCreator) *CreateGoalHandler {
	return &CreateGoalHandler{GoalService: svc}
}

func (h *CreateGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-goal",
		Method:        http.MethodPost,
		Path:          "/v1/goals",
		Summary:       "Create goal",
		Description:   "Creates an active goal with a zero balance.",
		Tags:          []string{"Goals"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseTarget accepts a positive decimal with at most two places.
func parseTarget(raw string) (decimal.Decimal, error) {
	target, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "invalid targetAmount", err)
	}
	if !target.IsPositive() {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "targetAmount must be positive")
	}
	if !target.Equal(target.Round(2)) {
		return decimal.Zero, huma.NewError(http.StatusBadRequest, "targetAmount has more than two decimal places")
	}
	return target, nil
}

func parseCreateGoalInput(input *CreateGoalInput) (service.GoalInput, error) {
	userID, err := input.Caller()
	if err != nil {
		return service.GoalInput{}, err
	}
	target, err := parseTarget(input.Body.TargetAmount)
	if err != nil {
		return service.GoalInput{}, err
	}
	deadline, err := time.Parse(time.RFC3339, input.Body.Deadline)
	if err != nil {
		return service.GoalInput{}, huma.NewError(http.StatusBadRequest, "invalid deadline", err)
	}

	return service.GoalInput{
		UserID:       userID,
		Name:         input.Body.Name,
		TargetAmount: target,
		Category:     input.Body.Category,
		Deadline:     deadline,
	}, nil
}

func (h *CreateGoalHandler) handle(ctx context.Context, input *CreateGoalInput) (*CreateGoalOutput, error) {
	parsed, err := parseCreateGoalInput(input)
	if err != nil {
		return nil, err
	}

	created, err := h.GoalService.CreateGoal(ctx, parsed)
	if err != nil {
		return nil, common.Error(err, "failed to create goal")
	}
	return &CreateGoalOutput{Status: http.StatusCreated, Body: toGoal(created)}, nil
}
