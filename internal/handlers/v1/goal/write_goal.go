package goal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/service"
	goalstore "github.com/carson-networks/ledger-server/internal/storage/goal"
)

// UpdateGoalBody lists the owner-editable fields. currentAmount is not among them.
type UpdateGoalBody struct {
	Name         *string `json:"name,omitempty" minLength:"1" doc:"Goal name"`
	TargetAmount *string `json:"targetAmount,omitempty" doc:"Positive decimal target"`
	Category     *string `json:"category,omitempty" minLength:"1" doc:"Category label"`
	Deadline     *string `json:"deadline,omitempty" doc:"RFC3339 deadline"`
	Status       *string `json:"status,omitempty" enum:"active,completed,cancelled" doc:"New status"`
}

type UpdateGoalInput struct {
	GoalIDInput
	Body UpdateGoalBody
}

type DeleteGoalBody struct {
	UnlinkedTransactions int64 `json:"unlinkedTransactions" doc:"Transactions whose goal link was cleared"`
}

type DeleteGoalOutput struct {
	Body DeleteGoalBody
}

type goalWriter interface {
	UpdateGoal(ctx context.Context, userID, id uuid.UUID, patch service.GoalPatch) (*service.Goal, error)
	DeleteGoal(ctx context.Context, userID, id uuid.UUID) (int64, error)
}

// WriteGoalHandler serves PATCH and DELETE on /v1/goals/{id}.
type WriteGoalHandler struct {
	GoalService goalWriter
}

func NewWriteGoalHandler(svc goalWriter) *WriteGoalHandler {
	return &WriteGoalHandler{GoalService: svc}
}

func (h *WriteGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "update-goal",
		Method:      http.MethodPatch,
		Path:        "/v1/goals/{id}",
		Summary:     "Update goal",
		Tags:        []string{"Goals"},
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID: "delete-goal",
		Method:      http.MethodDelete,
		Path:        "/v1/goals/{id}",
		Summary:     "Delete goal",
		Description: "Deletes the goal and clears the link on its transactions without reversing their effect.",
		Tags:        []string{"Goals"},
	}, h.delete)
}

func parseUpdateGoalBody(body *UpdateGoalBody) (service.GoalPatch, error) {
	patch := service.GoalPatch{
		Name:     body.Name,
		Category: body.Category,
	}
	if body.TargetAmount != nil {
		target, err := parseTarget(*body.TargetAmount)
		if err != nil {
			return patch, err
		}
		patch.TargetAmount = &target
	}
	if body.Deadline != nil {
		deadline, err := common.ParseOptionalTime(*body.Deadline, "deadline")
		if err != nil {
			return patch, err
		}
		patch.Deadline = deadline
	}
	if body.Status != nil {
		status := goalstore.Status(*body.Status)
		patch.Status = &status
	}
	return patch, nil
}

func (h *WriteGoalHandler) update(ctx context.Context, input *UpdateGoalInput) (*GoalOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}
	patch, err := parseUpdateGoalBody(&input.Body)
	if err != nil {
		return nil, err
	}

	updated, err := h.GoalService.UpdateGoal(ctx, userID, id, patch)
	if err != nil {
		return nil, common.Error(err, "failed to update goal")
	}
	return &GoalOutput{Body: toGoal(updated)}, nil
}

func (h *WriteGoalHandler) delete(ctx context.Context, input *GoalIDInput) (*DeleteGoalOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}

	unlinked, err := h.GoalService.DeleteGoal(ctx, userID, id)
	if err != nil {
		return nil, common.Error(err, "failed to delete goal")
	}

	return &DeleteGoalOutput{Body: DeleteGoalBody{UnlinkedTransactions: unlinked}}, nil
}
