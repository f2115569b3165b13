package service

import (
	"context"
	"testing"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
	"github.com/healthmate/healthmate-api/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func f64Ptr(f float64) *float64 { return &f }
func timePtr(t time.Time) *time.Time { return &t }

var fixedNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func TestGoalProgressIsRecomputedOnWrites(t *testing.T) {
	repo := newFakeGoalRepo()
	svc := NewHealthGoalService(repo)
	ctx := context.Background()

	goal, err := svc.Create(ctx, "user-1", GoalInput{
		Title:        strPtr("Drink more"),
		Type:         strPtr(domain.GoalWaterIntake),
		TargetValue:  f64Ptr(10),
		CurrentValue: f64Ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, goal.Progress)
	assert.Equal(t, domain.GoalActive, goal.Status)

	goal, err = svc.UpdateProgress(ctx, "user-1", goal.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 100.0, goal.Progress)
	assert.Equal(t, domain.GoalCompleted, goal.Status)

	stored, err := svc.Get(ctx, "user-1", goal.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalCompleted, stored.Status)

	_, err = svc.UpdateProgress(ctx, "user-2", goal.ID, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPausedGoalIsNotCompleted(t *testing.T) {
	svc := NewHealthGoalService(newFakeGoalRepo())
	ctx := context.Background()

	goal, err := svc.Create(ctx, "user-1", GoalInput{
		TargetValue: f64Ptr(10),
		Status:      strPtr(domain.GoalPaused),
	})
	require.NoError(t, err)

	goal, err = svc.Update(ctx, "user-1", goal.ID, GoalInput{CurrentValue: f64Ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, goal.Progress)
	assert.Equal(t, domain.GoalPaused, goal.Status)
}

func TestSleepMinutesDerivedOnWrites(t *testing.T) {
	repo := newFakeSleepRepo()
	svc := NewSleepTrackerService(repo)
	ctx := context.Background()

	log, err := svc.Create(ctx, "user-1", SleepInput{
		Bedtime:  strPtr("23:30"),
		WakeTime: strPtr("07:15"),
		Quality:  strPtr(domain.SleepGood),
	})
	require.NoError(t, err)
	assert.Equal(t, 465, log.TotalSleepMinutes)

	log, err = svc.Update(ctx, "user-1", log.ID, SleepInput{WakeTime: strPtr("06:30")})
	require.NoError(t, err)
	assert.Equal(t, 420, log.TotalSleepMinutes)
	assert.Equal(t, 420, repo.logs[log.ID].TotalSleepMinutes)
}

func TestSleepStatisticsUseWindow(t *testing.T) {
	repo := newFakeSleepRepo()
	svc := NewSleepTrackerService(repo)
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	for _, in := range []SleepInput{
		{SleepDate: timePtr(fixedNow.AddDate(0, 0, -1)), Bedtime: strPtr("23:00"), WakeTime: strPtr("07:00"), Quality: strPtr(domain.SleepGood)},
		{SleepDate: timePtr(fixedNow.AddDate(0, 0, -2)), Bedtime: strPtr("00:00"), WakeTime: strPtr("06:00"), Quality: strPtr(domain.SleepPoor)},
		{SleepDate: timePtr(fixedNow.AddDate(0, 0, -20)), Bedtime: strPtr("22:00"), WakeTime: strPtr("06:00"), Quality: strPtr(domain.SleepExcellent)},
	} {
		_, err := svc.Create(ctx, "user-1", in)
		require.NoError(t, err)
	}

	week, err := svc.Statistics(ctx, "user-1", "week")
	require.NoError(t, err)
	assert.Equal(t, 2, week.TotalDays)
	assert.Equal(t, 840, week.TotalSleepMinutes)
	assert.Equal(t, 7.0, week.AverageSleepHours)
	assert.Equal(t, 0, week.ByQuality[domain.SleepExcellent])

	month, err := svc.Statistics(ctx, "user-1", "month")
	require.NoError(t, err)
	assert.Equal(t, 3, month.TotalDays)
	assert.Equal(t, health.PeriodMonth, month.Period)
}

func TestWaterDaily(t *testing.T) {
	repo := &fakeWaterRepo{}
	svc := NewWaterIntakeService(repo)
	ctx := context.Background()

	day := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	for _, in := range []*domain.WaterIntake{
		{Date: day.Add(8 * time.Hour), Amount: 250},
		{Date: day.Add(23*time.Hour + 59*time.Minute), Amount: 500},
		{Date: day.Add(24 * time.Hour), Amount: 1000},
	} {
		_, err := svc.Create(ctx, "user-1", in)
		require.NoError(t, err)
	}

	got, err := svc.Daily(ctx, "user-1", day.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", got.Date)
	assert.Equal(t, 750.0, got.Total)
	assert.Equal(t, 2, got.Count)

	empty, err := svc.Daily(ctx, "user-1", day.AddDate(0, 0, -5))
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Intakes)
}

func TestWaterCreateDefaultsDate(t *testing.T) {
	svc := NewWaterIntakeService(&fakeWaterRepo{})
	svc.now = func() time.Time { return fixedNow }

	got, err := svc.Create(context.Background(), "user-1", &domain.WaterIntake{Amount: 200})
	require.NoError(t, err)
	assert.Equal(t, fixedNow, got.Date)
	assert.Equal(t, "user-1", got.UserID)
}
