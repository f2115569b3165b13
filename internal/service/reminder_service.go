package service

import (
	"context"

	"github.com/healthmate/healthmate-api/internal/domain"
)

// ReminderInput carries editable reminder fields. On update, nil fields are kept.
type ReminderInput struct {
	Title       *string
	Description *string
	Type        *string
	Time        *string
	DaysOfWeek  []int
	IsActive    *bool
}

// ReminderService manages reminders
type ReminderService struct {
	repo domain.ReminderRepository
}

// NewReminderService creates a new reminder service
func NewReminderService(repo domain.ReminderRepository) *ReminderService {
	return &ReminderService{repo: repo}
}

// Create stores a reminder. Reminders start active unless told otherwise.
func (s *ReminderService) Create(ctx context.Context, userID string, in ReminderInput) (*domain.Reminder, error) {
	reminder := &domain.Reminder{
		UserID:     userID,
		Type:       domain.ReminderOther,
		DaysOfWeek: []int{},
		IsActive:   true,
	}
	in.applyTo(reminder)

	if err := s.repo.Create(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *ReminderService) Get(ctx context.Context, userID, id string) (*domain.Reminder, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ReminderService) List(ctx context.Context, userID string, filter domain.ReminderFilter, page domain.Page) ([]*domain.Reminder, int64, error) {
	return s.repo.List(ctx, userID, filter, page)
}

func (s *ReminderService) Update(ctx context.Context, userID, id string, in ReminderInput) (*domain.Reminder, error) {
	reminder, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(reminder)

	if err := s.repo.Update(ctx, reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

func (s *ReminderService) Toggle(ctx context.Context, userID, id string, active bool) (*domain.Reminder, error) {
	return s.repo.SetActive(ctx, userID, id, active)
}

func (s *ReminderService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// Due lists active reminders firing at hhmm on the given weekday (0=Sunday)
func (s *ReminderService) Due(ctx context.Context, userID, hhmm string, day int) ([]*domain.Reminder, error) {
	return s.repo.DueAt(ctx, userID, hhmm, day)
}

func (in ReminderInput) applyTo(r *domain.Reminder) {
	if in.Title != nil {
		r.Title = *in.Title
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.Type != nil {
		r.Type = *in.Type
	}
	if in.Time != nil {
		r.Time = *in.Time
	}
	if in.DaysOfWeek != nil {
		r.DaysOfWeek = in.DaysOfWeek
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
}
