package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/healthmate/healthmate-api/internal/domain"
)

// DoctorInput carries editable doctor fields. On update, nil fields are kept.
type DoctorInput struct {
	Name           *string
	Specialty      *string
	Qualification  *string
	Image          *string
	AvailableSlots []string
	Status         *string
}

func (in DoctorInput) applyTo(d *domain.Doctor) {
	if in.Name != nil {
		d.Name = *in.Name
	}
	if in.Specialty != nil {
		d.Specialty = *in.Specialty
	}
	if in.Qualification != nil {
		d.Qualification = *in.Qualification
	}
	if in.Image != nil {
		d.Image = *in.Image
	}
	if in.AvailableSlots != nil {
		d.AvailableSlots = in.AvailableSlots
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
}

// DoctorService manages the doctor directory
type DoctorService struct {
	repo  domain.DoctorRepository
	files domain.FileRepository
}

// NewDoctorService creates a new doctor service. files may be nil, which
// disables image upload.
func NewDoctorService(repo domain.DoctorRepository, files domain.FileRepository) *DoctorService {
	return &DoctorService{repo: repo, files: files}
}

func (s *DoctorService) Create(ctx context.Context, in DoctorInput) (*domain.Doctor, error) {
	doctor := &domain.Doctor{Status: domain.DoctorAvailable}
	in.applyTo(doctor)

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (*domain.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *DoctorService) List(ctx context.Context, filter domain.DoctorFilter, page domain.Page) ([]*domain.Doctor, int64, error) {
	return s.repo.List(ctx, filter, page)
}

func (s *DoctorService) ListAvailable(ctx context.Context) ([]*domain.Doctor, error) {
	return s.repo.ListAvailable(ctx)
}

func (s *DoctorService) Update(ctx context.Context, id string, in DoctorInput) (*domain.Doctor, error) {
	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(doctor)

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *DoctorService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// UploadImage stores a portrait and records its URL on the doctor
func (s *DoctorService) UploadImage(ctx context.Context, id string, data []byte, filename, contentType string) (*domain.Doctor, error) {
	if s.files == nil {
		return nil, domain.ErrStorageUnavailable
	}

	doctor, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(path.Ext(filename))
	key := fmt.Sprintf("doctors/%s/%s%s", doctor.ID, uuid.NewString(), ext)
	url, err := s.files.Upload(ctx, data, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload doctor image: %w", err)
	}

	doctor.Image = url
	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}
