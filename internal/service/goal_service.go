package service

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/ledger-server/internal/apperr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
	"github.com/carson-networks/ledger-server/internal/storage/goal"
	"github.com/carson-networks/ledger-server/internal/tracker"
)

type GoalService struct {
	storage  *storage.Storage
	operator actionProcessor
}

func NewGoalService(store *storage.Storage, op actionProcessor) *GoalService {
	return &GoalService{storage: store, operator: op}
}

func (s *GoalService) CreateGoal(ctx context.Context, input GoalInput) (*Goal, error) {
	action := &actions.CreateGoal{
		UserID:       input.UserID,
		Name:         input.Name,
		TargetAmount: input.TargetAmount,
		Category:     input.Category,
		Deadline:     input.Deadline,
	}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	result := toServiceGoal(action.Result)
	return &result, nil
}

func (s *GoalService) owned(ctx context.Context, userID, id uuid.UUID) (*goal.Goal, error) {
	g, err := s.storage.Reader.Goals.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, apperr.ErrNotFound
	}
	return g, nil
}

func (s *GoalService) GetGoal(ctx context.Context, userID, id uuid.UUID) (*Goal, error) {
	g, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	result := toServiceGoal(g)
	return &result, nil
}

// GetProgress is a pure projection of the stored goal.
func (s *GoalService) GetProgress(ctx context.Context, userID, id uuid.UUID) (*GoalProgress, error) {
	g, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	progress := tracker.ProgressOf(g)
	return &progress, nil
}

func (s *GoalService) ListGoals(ctx context.Context, userID uuid.UUID, status *goal.Status) ([]Goal, error) {
	filter := &goal.Filter{UserID: &userID}
	if status != nil {
		filter.Statuses = []goal.Status{*status}
	}

	rows, err := s.storage.Reader.Goals.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]Goal, len(rows))
	for i, row := range rows {
		result[i] = toServiceGoal(row)
	}
	return result, nil
}

func (s *GoalService) UpdateGoal(ctx context.Context, userID, id uuid.UUID, patch GoalPatch) (*Goal, error) {
	action := &actions.UpdateGoal{UserID: userID, ID: id, Patch: patch}
	if err := s.operator.Process(ctx, action); err != nil {
		return nil, err
	}

	result := toServiceGoal(action.Result)
	return &result, nil
}

// DeleteGoal removes the goal and returns how many transactions were unlinked.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	action := &actions.DeleteGoal{UserID: userID, ID: id}
	if err := s.operator.Process(ctx, action); err != nil {
		return 0, err
	}
	return action.Unlinked, nil
}
