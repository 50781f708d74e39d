package goal

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/service"
	goalstore "github.com/carson-networks/ledger-server/internal/storage/goal"
)

type mockGoalService struct {
	mock.Mock
}

func (m *mockGoalService) CreateGoal(ctx context.Context, input service.GoalInput) (*service.Goal, error) {
	args := m.Called(ctx, input)
	g, _ := args.Get(0).(*service.Goal)
	return g, args.Error(1)
}

func (m *mockGoalService) GetGoal(ctx context.Context, userID, id uuid.UUID) (*service.Goal, error) {
	args := m.Called(ctx, userID, id)
	g, _ := args.Get(0).(*service.Goal)
	return g, args.Error(1)
}

func (m *mockGoalService) GetProgress(ctx context.Context, userID, id uuid.UUID) (*service.GoalProgress, error) {
	args := m.Called(ctx, userID, id)
	p, _ := args.Get(0).(*service.GoalProgress)
	return p, args.Error(1)
}

func (m *mockGoalService) ListGoals(ctx context.Context, userID uuid.UUID, status *goalstore.Status) ([]service.Goal, error) {
	args := m.Called(ctx, userID, status)
	goals, _ := args.Get(0).([]service.Goal)
	return goals, args.Error(1)
}

func (m *mockGoalService) UpdateGoal(ctx context.Context, userID, id uuid.UUID, patch service.GoalPatch) (*service.Goal, error) {
	args := m.Called(ctx, userID, id, patch)
	g, _ := args.Get(0).(*service.Goal)
	return g, args.Error(1)
}

func (m *mockGoalService) DeleteGoal(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(int64), args.Error(1)
}

func newTestAPI(t *testing.T, svc *mockGoalService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewCreateGoalHandler(svc).Register(api)
	NewReadGoalHandler(svc).Register(api)
	NewWriteGoalHandler(svc).Register(api)
	return api
}

func userHeader(id uuid.UUID) string {
	return "X-User-ID: " + id.String()
}

func sampleGoal(userID uuid.UUID) *service.Goal {
	return &service.Goal{
		ID:            uuid.Must(uuid.NewV4()),
		UserID:        userID,
		Name:          "Laptop",
		TargetAmount:  decimal.NewFromInt(1000),
		CurrentAmount: decimal.NewFromInt(600),
		Percent:       decimal.NewFromInt(60),
		Category:      "electronics",
		Deadline:      time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:        goalstore.StatusActive,
	}
}

// -- parse unit tests --

func TestParseTarget(t *testing.T) {
	target, err := parseTarget("1000.50")
	assert.NoError(t, err)
	assert.True(t, target.Equal(decimal.RequireFromString("1000.5")))

	for _, raw := range []string{"abc", "0", "-5", "10.005"} {
		_, err := parseTarget(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseUpdateGoalBody_CarriesStatus(t *testing.T) {
	cancelled := "cancelled"
	patch, err := parseUpdateGoalBody(&UpdateGoalBody{Status: &cancelled})
	assert.NoError(t, err)
	assert.Equal(t, goalstore.StatusCancelled, *patch.Status)
	assert.Nil(t, patch.TargetAmount)
}

// -- HTTP integration tests --

func TestHTTP_CreateGoal_Success(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	created := sampleGoal(userID)

	mockSvc := new(mockGoalService)
	mockSvc.On("CreateGoal", mock.Anything, mock.MatchedBy(func(in service.GoalInput) bool {
		return in.UserID == userID && in.TargetAmount.Equal(decimal.NewFromInt(1000)) && in.Name == "Laptop"
	})).Return(created, nil)

	resp := newTestAPI(t, mockSvc).Post("/v1/goals", userHeader(userID), CreateGoalBody{
		Name:         "Laptop",
		TargetAmount: "1000",
		Category:     "electronics",
		Deadline:     "2026-01-01T00:00:00Z",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)
	var body Goal
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "1000.00", body.TargetAmount)
	assert.Equal(t, "600.00", body.CurrentAmount)
	assert.Equal(t, "active", body.Status)
	mockSvc.AssertExpectations(t)
}

func TestHTTP_CreateGoal_InvalidTarget(t *testing.T) {
	mockSvc := new(mockGoalService)

	resp := newTestAPI(t, mockSvc).Post("/v1/goals", userHeader(uuid.Must(uuid.NewV4())), CreateGoalBody{
		Name: "Laptop", TargetAmount: "-1", Category: "electronics", Deadline: "2026-01-01T00:00:00Z",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	mockSvc.AssertNotCalled(t, "CreateGoal")
}

func TestHTTP_GetProgress(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mockSvc := new(mockGoalService)
	mockSvc.On("GetProgress", mock.Anything, userID, id).Return(&service.GoalProgress{
		Current: decimal.NewFromInt(1100),
		Target:  decimal.NewFromInt(1000),
		Percent: decimal.NewFromInt(110),
		Status:  goalstore.StatusCompleted,
	}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/goals/"+id.String()+"/progress", userHeader(userID))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body Progress
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, Progress{Current: "1100.00", Target: "1000.00", Percent: "110.00", Status: "completed"}, body)
}

func TestHTTP_GetGoal_OtherUser(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mockSvc := new(mockGoalService)
	mockSvc.On("GetGoal", mock.Anything, userID, id).Return(nil, apperr.ErrNotFound)

	resp := newTestAPI(t, mockSvc).Get("/v1/goals/"+id.String(), userHeader(userID))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestHTTP_ListGoals_StatusFilter(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())

	mockSvc := new(mockGoalService)
	mockSvc.On("ListGoals", mock.Anything, userID, mock.MatchedBy(func(s *goalstore.Status) bool {
		return s != nil && *s == goalstore.StatusActive
	})).Return([]service.Goal{*sampleGoal(userID)}, nil)

	resp := newTestAPI(t, mockSvc).Get("/v1/goals?status=active", userHeader(userID))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body ListGoalsBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Goals, 1)
}

func TestHTTP_ListGoals_BadStatus(t *testing.T) {
	mockSvc := new(mockGoalService)

	resp := newTestAPI(t, mockSvc).Get("/v1/goals?status=paused", userHeader(uuid.Must(uuid.NewV4())))

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	mockSvc.AssertNotCalled(t, "ListGoals")
}

func TestHTTP_UpdateGoal_InvalidTransition(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mockSvc := new(mockGoalService)
	mockSvc.On("UpdateGoal", mock.Anything, userID, id, mock.Anything).Return(nil, apperr.ErrInvalidStatusTransition)

	resp := newTestAPI(t, mockSvc).Patch("/v1/goals/"+id.String(), userHeader(userID), map[string]any{
		"status": "active",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestHTTP_DeleteGoal_ReportsUnlinked(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	id := uuid.Must(uuid.NewV4())

	mockSvc := new(mockGoalService)
	mockSvc.On("DeleteGoal", mock.Anything, userID, id).Return(int64(3), nil)

	resp := newTestAPI(t, mockSvc).Delete("/v1/goals/"+id.String(), userHeader(userID))

	assert.Equal(t, http.StatusOK, resp.Code)
	var body DeleteGoalBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(3), body.UnlinkedTransactions)
}
