package service

import (
	"context"
	"fmt"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/health"
	"golang.org/x/sync/errgroup"
)

// recentChatLimit is how many chats the dashboard previews
const recentChatLimit = 5

// adminWindow is the span of the admin growth and activity series
const adminWindow = 30 * 24 * time.Hour

// ReportService assembles reports from live data. Nothing is cached.
type ReportService struct {
	userRepo     domain.UserRepository
	recordRepo   domain.HealthRecordRepository
	chatRepo     domain.ChatHistoryRepository
	reminderRepo domain.ReminderRepository
	goalRepo     domain.HealthGoalRepository
	waterRepo    domain.WaterIntakeRepository
	exerciseRepo domain.ExerciseLogRepository
	sleepRepo    domain.SleepLogRepository
	now          func() time.Time
}

// ReportRepositories groups the repositories reports read from
type ReportRepositories struct {
	Users     domain.UserRepository
	Records   domain.HealthRecordRepository
	Chats     domain.ChatHistoryRepository
	Reminders domain.ReminderRepository
	Goals     domain.HealthGoalRepository
	Water     domain.WaterIntakeRepository
	Exercise  domain.ExerciseLogRepository
	Sleep     domain.SleepLogRepository
}

// NewReportService creates a new ReportService instance
func NewReportService(repos ReportRepositories) *ReportService {
	return &ReportService{
		userRepo:     repos.Users,
		recordRepo:   repos.Records,
		chatRepo:     repos.Chats,
		reminderRepo: repos.Reminders,
		goalRepo:     repos.Goals,
		waterRepo:    repos.Water,
		exerciseRepo: repos.Exercise,
		sleepRepo:    repos.Sleep,
		now:          time.Now,
	}
}

// HealthReport charts and summarises the user's records in [start, end].
// Missing bounds default to the last 30 days.
func (s *ReportService) HealthReport(ctx context.Context, userID string, start, end *time.Time) (*health.HealthReport, error) {
	report, _, err := s.HealthReportData(ctx, userID, start, end)
	return report, err
}

// HealthReportData returns the report together with the raw records, for export
func (s *ReportService) HealthReportData(ctx context.Context, userID string, start, end *time.Time) (*health.HealthReport, []*domain.HealthRecord, error) {
	from, to := health.DefaultReportRange(start, end, s.now())

	records, err := s.recordRepo.ListBetween(ctx, userID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load health records: %w", err)
	}

	report := health.BuildHealthReport(records, from, to)
	return &report, records, nil
}

// ChatbotReport summarises the user's chatbot use in [start, end]
func (s *ReportService) ChatbotReport(ctx context.Context, userID string, start, end *time.Time) (*health.ChatbotReport, error) {
	from, to := health.DefaultReportRange(start, end, s.now())

	chats, err := s.chatRepo.ListBetween(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	report := health.BuildChatbotReport(chats, from, to)
	return &report, nil
}

// Dashboard fetches the latest record, totals and recent chats concurrently
func (s *ReportService) Dashboard(ctx context.Context, userID string) (*health.Dashboard, error) {
	var (
		latest       *domain.HealthRecord
		totalRecords int64
		totalChats   int64
		recent       []*domain.ChatHistory
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		latest, err = s.recordRepo.GetLatest(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		totalRecords, err = s.recordRepo.CountByUser(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		totalChats, err = s.chatRepo.CountByUser(gCtx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = s.chatRepo.Recent(gCtx, userID, recentChatLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build dashboard: %w", err)
	}

	dashboard := health.BuildDashboard(latest, totalRecords, totalChats, recent)
	return &dashboard, nil
}

// AdminStats gathers system-wide aggregates concurrently
func (s *ReportService) AdminStats(ctx context.Context) (*health.AdminStats, error) {
	to := s.now()
	from := to.Add(-adminWindow)

	var in health.AdminInputs
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		in.TotalHealthRecords, err = s.recordRepo.CountAll(gCtx)
		return err
	})
	g.Go(func() (err error) {
		in.TotalChatQuestions, err = s.chatRepo.CountAll(gCtx)
		return err
	})
	g.Go(func() (err error) {
		in.TotalActiveReminders, err = s.reminderRepo.CountActive(gCtx)
		return err
	})
	g.Go(func() (err error) {
		in.Goals, err = s.goalRepo.Counts(gCtx)
		return err
	})
	g.Go(func() (err error) {
		in.Water, err = s.waterRepo.Totals(gCtx)
		return err
	})
	g.Go(func() (err error) {
		in.Exercise, err = s.exerciseRepo.Totals(gCtx)
		return err
	})
	g.Go(func() (err error) {
		in.Sleep, err = s.sleepRepo.Totals(gCtx)
		return err
	})
	g.Go(func() (err error) {
		in.UserGrowth, err = s.userRepo.CountSignupsByDay(gCtx, from, to)
		return err
	})
	g.Go(func() (err error) {
		in.DailyHealthRecords, err = s.recordRepo.CountByDay(gCtx, from, to)
		return err
	})
	g.Go(func() (err error) {
		in.DailyChats, err = s.chatRepo.CountByDay(gCtx, from, to)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build admin stats: %w", err)
	}

	stats := health.BuildAdminStats(in)
	return &stats, nil
}
