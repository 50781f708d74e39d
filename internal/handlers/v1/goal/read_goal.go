package goal

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/handlers/v1/common"
	"github.com/carson-networks/ledger-server/internal/logging"
	"github.com/carson-networks/ledger-server/internal/service"
	goalstore "github.com/carson-networks/ledger-server/internal/storage/goal"
)

type goalReader interface {
	GetGoal(ctx context.Context, userID, id uuid.UUID) (*service.Goal, error)
	GetProgress(ctx context.Context, userID, id uuid.UUID) (*service.GoalProgress, error)
	ListGoals(ctx context.Context, userID uuid.UUID, status *goalstore.Status) ([]service.Goal, error)
}

// ReadGoalHandler serves the read-only goal endpoints.
type ReadGoalHandler struct {
	GoalService goalReader
}

func NewReadGoalHandler(svc goalReader) *ReadGoalHandler {
	return &ReadGoalHandler{GoalService: svc}
}

func (h *ReadGoalHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-goal",
		Method:      http.MethodGet,
		Path:        "/v1/goals/{id}",
		Summary:     "Get goal",
		Tags:        []string{"Goals"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "get-goal-progress",
		Method:      http.MethodGet,
		Path:        "/v1/goals/{id}/progress",
		Summary:     "Get goal progress",
		Description: "Returns current, target, percent and status. The balance is never recomputed from the ledger.",
		Tags:        []string{"Goals"},
	}, h.progress)

	huma.Register(api, huma.Operation{
		OperationID: "list-goals",
		Method:      http.MethodGet,
		Path:        "/v1/goals",
		Summary:     "List goals",
		Tags:        []string{"Goals"},
	}, h.list)
}

func (h *ReadGoalHandler) get(ctx context.Context, input *GoalIDInput) (*GoalOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}

	found, err := h.GoalService.GetGoal(ctx, userID, id)
	if err != nil {
		return nil, common.Error(err, "failed to get goal")
	}
	return &GoalOutput{Body: toGoal(found)}, nil
}

type Progress struct {
	Current string `json:"current" doc:"Decimal amount saved"`
	Target  string `json:"target" doc:"Decimal target"`
	Percent string `json:"percent" doc:"Percent, two decimals"`
	Status  string `json:"status" doc:"Goal status"`
}

type ProgressOutput struct {
	Body Progress
}

func (h *ReadGoalHandler) progress(ctx context.Context, input *GoalIDInput) (*ProgressOutput, error) {
	userID, id, err := input.parse()
	if err != nil {
		return nil, err
	}

	p, err := h.GoalService.GetProgress(ctx, userID, id)
	if err != nil {
		return nil, common.Error(err, "failed to get goal progress")
	}
	return &ProgressOutput{Body: Progress{
		Current: p.Current.StringFixed(2),
		Target:  p.Target.StringFixed(2),
		Percent: p.Percent.StringFixed(2),
		Status:  string(p.Status),
	}}, nil
}

type ListGoalsInput struct {
	common.Identity
	Status string `query:"status" enum:"active,completed,cancelled" doc:"Only goals in this status"`
}

type ListGoalsBody struct {
	Goals []Goal `json:"goals" doc:"The caller's goals"`
}

type ListGoalsOutput struct {
	Body ListGoalsBody
}

func (h *ReadGoalHandler) list(ctx context.Context, input *ListGoalsInput) (*ListGoalsOutput, error) {
	userID, err := input.Caller()
	if err != nil {
		return nil, err
	}

	var status *goalstore.Status
	if input.Status != "" {
		s := goalstore.Status(input.Status)
		status = &s
	}

	goals, err := h.GoalService.ListGoals(ctx, userID, status)
	if err != nil {
		return nil, common.Error(err, "failed to list goals")
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("goalCount", len(goals))
	}

	out := &ListGoalsOutput{}
	out.Body.Goals = make([]Goal, len(goals))
	for i := range goals {
		out.Body.Goals[i] = toGoal(&goals[i])
	}
	return out, nil
}
