package service

import (
	"context"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/health"
)

// WaterIntakeService records drinks and summarises them
type WaterIntakeService struct {
	repo domain.WaterIntakeRepository
	now  func() time.Time
}

// NewWaterIntakeService creates a new water intake service
func NewWaterIntakeService(repo domain.WaterIntakeRepository) *WaterIntakeService {
	return &WaterIntakeService{repo: repo, now: time.Now}
}

// WaterDay is one calendar day of intake
type WaterDay struct {
	Date    string                `json:"date"`
	Total   float64               `json:"total"`
	Count   int                   `json:"count"`
	Intakes []*domain.WaterIntake `json:"intakes"`
}

// Create stores a drink; a zero date means now
func (s *WaterIntakeService) Create(ctx context.Context, userID string, intake *domain.WaterIntake) (*domain.WaterIntake, error) {
	intake.UserID = userID
	if intake.Date.IsZero() {
		intake.Date = s.now()
	}
	if err := s.repo.Create(ctx, intake); err != nil {
		return nil, err
	}
	return intake, nil
}

func (s *WaterIntakeService) List(ctx context.Context, userID string, dates domain.DateRange, page domain.Page) ([]*domain.WaterIntake, int64, error) {
	return s.repo.List(ctx, userID, dates, page)
}

// Daily returns the intakes of the UTC calendar day containing day
func (s *WaterIntakeService) Daily(ctx context.Context, userID string, day time.Time) (*WaterDay, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Nanosecond)

	intakes, err := s.repo.ListBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	if intakes == nil {
		intakes = []*domain.WaterIntake{}
	}

	return &WaterDay{
		Date:    health.DayKey(start),
		Total:   health.WaterTotal(intakes),
		Count:   len(intakes),
		Intakes: intakes,
	}, nil
}

func (s *WaterIntakeService) Statistics(ctx context.Context, userID, period string) (*health.WaterStatistics, error) {
	w := health.ComputeWindow(period, s.now())
	intakes, err := s.repo.ListBetween(ctx, userID, w.StartDate, w.EndDate)
	if err != nil {
		return nil, err
	}
	stats := health.WaterStats(w, intakes)
	return &stats, nil
}

func (s *WaterIntakeService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// ExerciseInput carries editable workout fields. On update, nil fields are kept.
type ExerciseInput struct {
	ExerciseType   *string
	ExerciseName   *string
	Duration       *float64
	Intensity      *string
	CaloriesBurned *float64
	Distance       *float64
	ExerciseDate   *time.Time
	Note           *string
}

func (in ExerciseInput) applyTo(l *domain.ExerciseLog) {
	if in.ExerciseType != nil {
		l.ExerciseType = *in.ExerciseType
	}
	if in.ExerciseName != nil {
		l.ExerciseName = *in.ExerciseName
	}
	if in.Duration != nil {
		l.Duration = *in.Duration
	}
	if in.Intensity != nil {
		l.Intensity = *in.Intensity
	}
	if in.CaloriesBurned != nil {
		l.CaloriesBurned = *in.CaloriesBurned
	}
	if in.Distance != nil {
		l.Distance = *in.Distance
	}
	if in.ExerciseDate != nil {
		l.ExerciseDate = *in.ExerciseDate
	}
	if in.Note != nil {
		l.Note = *in.Note
	}
}

// ExerciseLogService manages workouts
type ExerciseLogService struct {
	repo domain.ExerciseLogRepository
	now  func() time.Time
}

// NewExerciseLogService creates a new exercise log service
func NewExerciseLogService(repo domain.ExerciseLogRepository) *ExerciseLogService {
	return &ExerciseLogService{repo: repo, now: time.Now}
}

func (s *ExerciseLogService) Create(ctx context.Context, userID string, in ExerciseInput) (*domain.ExerciseLog, error) {
	log := &domain.ExerciseLog{
		UserID:       userID,
		ExerciseType: domain.ExerciseOther,
		Intensity:    "moderate",
		ExerciseDate: s.now(),
	}
	in.applyTo(log)

	if err := s.repo.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *ExerciseLogService) Get(ctx context.Context, userID, id string) (*domain.ExerciseLog, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *ExerciseLogService) List(ctx context.Context, userID string, filter domain.ExerciseFilter, page domain.Page) ([]*domain.ExerciseLog, int64, error) {
	return s.repo.List(ctx, userID, filter, page)
}

func (s *ExerciseLogService) Update(ctx context.Context, userID, id string, in ExerciseInput) (*domain.ExerciseLog, error) {
	log, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(log)

	if err := s.repo.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *ExerciseLogService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *ExerciseLogService) Statistics(ctx context.Context, userID, period string) (*health.ExerciseStatistics, error) {
	w := health.ComputeWindow(period, s.now())
	logs, err := s.repo.ListBetween(ctx, userID, w.StartDate, w.EndDate)
	if err != nil {
		return nil, err
	}
	stats := health.ExerciseStats(w, logs)
	return &stats, nil
}

// SleepInput carries editable night fields. On update, nil fields are kept.
type SleepInput struct {
	SleepDate   *time.Time
	Bedtime     *string
	WakeTime    *string
	Quality     *string
	WakeUpCount *int
	Note        *string
}

func (in SleepInput) applyTo(l *domain.SleepLog) {
	if in.SleepDate != nil {
		l.SleepDate = *in.SleepDate
	}
	if in.Bedtime != nil {
		l.Bedtime = *in.Bedtime
	}
	if in.WakeTime != nil {
		l.WakeTime = *in.WakeTime
	}
	if in.Quality != nil {
		l.Quality = *in.Quality
	}
	if in.WakeUpCount != nil {
		l.WakeUpCount = *in.WakeUpCount
	}
	if in.Note != nil {
		l.Note = *in.Note
	}
}

// SleepTrackerService manages nights. TotalSleepMinutes is derived from
// bedtime and wake time on every write.
type SleepTrackerService struct {
	repo domain.SleepLogRepository
	now  func() time.Time
}

// NewSleepTrackerService creates a new sleep tracker service
func NewSleepTrackerService(repo domain.SleepLogRepository) *SleepTrackerService {
	return &SleepTrackerService{repo: repo, now: time.Now}
}

func (s *SleepTrackerService) Create(ctx context.Context, userID string, in SleepInput) (*domain.SleepLog, error) {
	log := &domain.SleepLog{
		UserID:    userID,
		SleepDate: s.now(),
		Quality:   domain.SleepFair,
	}
	in.applyTo(log)
	log.TotalSleepMinutes = health.SleepMinutes(log.Bedtime, log.WakeTime)

	if err := s.repo.Create(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *SleepTrackerService) Get(ctx context.Context, userID, id string) (*domain.SleepLog, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *SleepTrackerService) List(ctx context.Context, userID string, dates domain.DateRange, page domain.Page) ([]*domain.SleepLog, int64, error) {
	return s.repo.List(ctx, userID, dates, page)
}

func (s *SleepTrackerService) Update(ctx context.Context, userID, id string, in SleepInput) (*domain.SleepLog, error) {
	log, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	in.applyTo(log)
	log.TotalSleepMinutes = health.SleepMinutes(log.Bedtime, log.WakeTime)

	if err := s.repo.Update(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *SleepTrackerService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *SleepTrackerService) Statistics(ctx context.Context, userID, period string) (*health.SleepStatistics, error) {
	w := health.ComputeWindow(period, s.now())
	logs, err := s.repo.ListBetween(ctx, userID, w.StartDate, w.EndDate)
	if err != nil {
		return nil, err
	}
	stats := health.SleepStats(w, logs)
	return &stats, nil
}
