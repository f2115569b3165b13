package service

import (
	"context"

	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/health"
	"github.com/healthmate/healthmate-api/internal/telemetry"
)

// HealthRecordInput carries the measurable fields of a vitals snapshot.
// On update, nil fields keep their stored value.
type HealthRecordInput struct {
	Height        *float64
	Weight        *float64
	BloodPressure *domain.BloodPressure
	HeartRate     *float64
	BloodSugar    *float64
	Temperature   *float64
	Note          *string
}

func (in HealthRecordInput) applyTo(r *domain.HealthRecord) {
	if in.Height != nil {
		r.Height = in.Height
	}
	if in.Weight != nil {
		r.Weight = in.Weight
	}
	if in.BloodPressure != nil {
		r.BloodPressure = in.BloodPressure
	}
	if in.HeartRate != nil {
		r.HeartRate = in.HeartRate
	}
	if in.BloodSugar != nil {
		r.BloodSugar = in.BloodSugar
	}
	if in.Temperature != nil {
		r.Temperature = in.Temperature
	}
	if in.Note != nil {
		r.Note = *in.Note
	}
}

// AnalyzedRecord pairs a stored record with its freshly computed analysis
type AnalyzedRecord struct {
	Record   *domain.HealthRecord `json:"record"`
	Analysis health.Analysis      `json:"analysis"`
}

// HealthRecordService manages vitals snapshots
type HealthRecordService struct {
	repo    domain.HealthRecordRepository
	metrics *telemetry.AnalysisMetrics
}

// NewHealthRecordService creates a new health record service. metrics may be nil.
func NewHealthRecordService(repo domain.HealthRecordRepository, metrics *telemetry.AnalysisMetrics) *HealthRecordService {
	return &HealthRecordService{repo: repo, metrics: metrics}
}

func (s *HealthRecordService) Create(ctx context.Context, userID string, in HealthRecordInput) (*AnalyzedRecord, error) {
	record := &domain.HealthRecord{UserID: userID}
	in.applyTo(record)

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return s.analyzed(ctx, record, true), nil
}

func (s *HealthRecordService) Get(ctx context.Context, userID, id string) (*AnalyzedRecord, error) {
	record, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.analyzed(ctx, record, false), nil
}

// Latest returns nil, nil when the user has no records yet
func (s *HealthRecordService) Latest(ctx context.Context, userID string) (*AnalyzedRecord, error) {
	record, err := s.repo.GetLatest(ctx, userID)
	if err != nil || record == nil {
		return nil, err
	}
	return s.analyzed(ctx, record, false), nil
}

func (s *HealthRecordService) List(ctx context.Context, userID string, dates domain.DateRange, page domain.Page) ([]*domain.HealthRecord, int64, error) {
	return s.repo.List(ctx, userID, dates, page)
}

func (s *HealthRecordService) Update(ctx context.Context, userID, id string, in HealthRecordInput) (*AnalyzedRecord, error) {
	record, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(record)

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, err
	}
	return s.analyzed(ctx, record, true), nil
}

func (s *HealthRecordService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// analyzed runs the analysis; warnings are counted only for writes
func (s *HealthRecordService) analyzed(ctx context.Context, record *domain.HealthRecord, written bool) *AnalyzedRecord {
	analysis := health.Analyze(record)
	if written {
		for _, w := range analysis.Warnings {
			s.metrics.RecordWarning(ctx, w.Type)
		}
	}
	return &AnalyzedRecord{Record: record, Analysis: analysis}
}
