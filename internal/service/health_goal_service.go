package service

import (
	"context"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/health"
)

// GoalInput carries editable goal fields. On update, nil fields are kept.
type GoalInput struct {
	Title        *string
	Description  *string
	Type         *string
	TargetValue  *float64
	Unit         *string
	CurrentValue *float64
	StartDate    *time.Time
	EndDate      *time.Time
	Status       *string
}

// HealthGoalService manages goals. Progress and completion are recomputed
// before every write.
type HealthGoalService struct {
	repo domain.HealthGoalRepository
	now  func() time.Time
}

// NewHealthGoalService creates a new goal service
func NewHealthGoalService(repo domain.HealthGoalRepository) *HealthGoalService {
	return &HealthGoalService{repo: repo, now: time.Now}
}

func (s *HealthGoalService) Create(ctx context.Context, userID string, in GoalInput) (*domain.HealthGoal, error) {
	goal := &domain.HealthGoal{
		UserID:    userID,
		Type:      domain.GoalOther,
		Status:    domain.GoalActive,
		StartDate: s.now(),
	}
	in.applyTo(goal)
	health.RecomputeGoal(goal)

	if err := s.repo.Create(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *HealthGoalService) Get(ctx context.Context, userID, id string) (*domain.HealthGoal, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *HealthGoalService) List(ctx context.Context, userID string, filter domain.GoalFilter, page domain.Page) ([]*domain.HealthGoal, int64, error) {
	return s.repo.List(ctx, userID, filter, page)
}

func (s *HealthGoalService) Update(ctx context.Context, userID, id string, in GoalInput) (*domain.HealthGoal, error) {
	goal, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(goal)
	health.RecomputeGoal(goal)

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// UpdateProgress records a new current value and re-evaluates completion
func (s *HealthGoalService) UpdateProgress(ctx context.Context, userID, id string, current float64) (*domain.HealthGoal, error) {
	goal, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	health.UpdateProgress(goal, current)

	if err := s.repo.Update(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *HealthGoalService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (in GoalInput) applyTo(g *domain.HealthGoal) {
	if in.Title != nil {
		g.Title = *in.Title
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	if in.Type != nil {
		g.Type = *in.Type
	}
	if in.TargetValue != nil {
		g.TargetValue = *in.TargetValue
	}
	if in.Unit != nil {
		g.Unit = *in.Unit
	}
	if in.CurrentValue != nil {
		g.CurrentValue = *in.CurrentValue
	}
	if in.StartDate != nil {
		g.StartDate = *in.StartDate
	}
	if in.EndDate != nil {
		g.EndDate = in.EndDate
	}
	if in.Status != nil {
		g.Status = *in.Status
	}
}
