package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
)

// BookingInput is a user's appointment request
type BookingInput struct {
	DoctorID        string
	AppointmentDate time.Time
	AppointmentTime string
	PatientName     string
	PhoneNumber     string
	Description     string
}

// AppointmentService books and administers appointments
type AppointmentService struct {
	repo       domain.AppointmentRepository
	doctorRepo domain.DoctorRepository
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(repo domain.AppointmentRepository, doctorRepo domain.DoctorRepository) *AppointmentService {
	return &AppointmentService{repo: repo, doctorRepo: doctorRepo}
}

// Book creates a pending appointment with an available doctor
func (s *AppointmentService) Book(ctx context.Context, userID string, in BookingInput) (*domain.Appointment, error) {
	doctor, err := s.doctorRepo.GetByID(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor.Status != domain.DoctorAvailable {
		return nil, domain.ErrDoctorBusy
	}

	appt := &domain.Appointment{
		UserID:          userID,
		DoctorID:        doctor.ID,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		PatientName:     in.PatientName,
		PhoneNumber:     in.PhoneNumber,
		Description:     in.Description,
		Status:          domain.AppointmentPending,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	appt.Doctor = doctor
	return appt, nil
}

// GetMine returns one of the user's appointments
func (s *AppointmentService) GetMine(ctx context.Context, userID, id string) (*domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachDoctors(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// ListMine lists the user's appointments, optionally by status
func (s *AppointmentService) ListMine(ctx context.Context, userID, status string, page domain.Page) ([]*domain.Appointment, int64, error) {
	return s.list(ctx, domain.AppointmentFilter{UserID: userID, Status: status}, page)
}

// Cancel cancels a pending appointment. Appointments past pending yield
// domain.ErrCannotCancel.
func (s *AppointmentService) Cancel(ctx context.Context, userID, id string) (*domain.Appointment, error) {
	appt, err := s.repo.CancelPending(ctx, userID, id)
	if err == nil {
		if err := s.attachDoctors(ctx, appt); err != nil {
			return nil, err
		}
		return appt, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if _, getErr := s.repo.GetByID(ctx, userID, id); getErr != nil {
		return nil, getErr
	}
	return nil, domain.ErrCannotCancel
}

// List is the admin listing across all users
func (s *AppointmentService) List(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) ([]*domain.Appointment, int64, error) {
	return s.list(ctx, filter, page)
}

// Get is the admin lookup, not scoped to a user
func (s *AppointmentService) Get(ctx context.Context, id string) (*domain.Appointment, error) {
	return s.GetMine(ctx, "", id)
}

// UpdateStatus moves an appointment to an admin-settable status
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, status, adminNote string) (*domain.Appointment, error) {
	if !slices.Contains(domain.AdminSettableStatuses, status) {
		return nil, domain.ErrInvalidStatus
	}
	appt, err := s.repo.UpdateStatus(ctx, id, status, adminNote)
	if err != nil {
		return nil, err
	}
	if err := s.attachDoctors(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) list(ctx context.Context, filter domain.AppointmentFilter, page domain.Page) ([]*domain.Appointment, int64, error) {
	appts, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}
	if err := s.attachDoctors(ctx, appts...); err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

// attachDoctors populates Doctor on each appointment. Deleted doctors are
// left nil; any other lookup failure is returned.
func (s *AppointmentService) attachDoctors(ctx context.Context, appts ...*domain.Appointment) error {
	cache := make(map[string]*domain.Doctor)
	for _, a := range appts {
		doctor, seen := cache[a.DoctorID]
		if !seen {
			var err error
			doctor, err = s.doctorRepo.GetByID(ctx, a.DoctorID)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("failed to load doctor %s: %w", a.DoctorID, err)
			}
			cache[a.DoctorID] = doctor
		}
		a.Doctor = doctor
	}
	return nil
}
