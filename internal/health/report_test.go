package health

import (
	"reflect"
	"testing"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
)

func TestBuildHealthReport(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	records := []*domain.HealthRecord{
		{CreatedAt: start.AddDate(0, 0, 5), Weight: ptr(71), Height: ptr(170), HeartRate: ptr(80)},
		{CreatedAt: start, Weight: ptr(72), BloodPressure: &domain.BloodPressure{Systolic: 120, Diastolic: 80}},
		{CreatedAt: end, HeartRate: ptr(70), BloodPressure: &domain.BloodPressure{Systolic: 130, Diastolic: 0}},
		{CreatedAt: start.Add(-time.Second), Weight: ptr(99)},
		{CreatedAt: end.Add(time.Second), Weight: ptr(99)},
	}

	got := BuildHealthReport(records, start, end)

	if got.Stats.TotalRecords != 3 {
		t.Errorf("TotalRecords = %d, want 3 (bounds inclusive)", got.Stats.TotalRecords)
	}
	if len(got.ChartData.Weight) != 2 || got.ChartData.Weight[0].Value != 72 || got.ChartData.Weight[1].Value != 71 {
		t.Errorf("Weight series = %+v, want ascending [72 71]", got.ChartData.Weight)
	}
	if len(got.ChartData.Height) != 1 || len(got.ChartData.BMI) != 1 {
		t.Errorf("Height/BMI series = %+v / %+v", got.ChartData.Height, got.ChartData.BMI)
	}
	if got.ChartData.BMI[0].Value != 24.6 {
		t.Errorf("BMI = %v, want 24.6", got.ChartData.BMI[0].Value)
	}
	if len(got.ChartData.BloodPressure) != 1 {
		t.Errorf("BloodPressure series = %+v, want only complete readings", got.ChartData.BloodPressure)
	}

	wantWeight := &SeriesStats{Min: 71, Max: 72, Avg: 71.5, Latest: 71}
	if got.Stats.Weight == nil || *got.Stats.Weight != *wantWeight {
		t.Errorf("Weight stats = %+v, want %+v", got.Stats.Weight, wantWeight)
	}
	wantHR := &SeriesStats{Min: 70, Max: 80, Avg: 75, Latest: 70}
	if got.Stats.HeartRate == nil || *got.Stats.HeartRate != *wantHR {
		t.Errorf("HeartRate stats = %+v, want %+v", got.Stats.HeartRate, wantHR)
	}
	if got.Stats.Systolic == nil || got.Stats.Systolic.Latest != 120 {
		t.Errorf("Systolic stats = %+v", got.Stats.Systolic)
	}
}

func TestBuildHealthReportOmitsEmptySeriesStats(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	got := BuildHealthReport([]*domain.HealthRecord{{CreatedAt: start, Note: "felt fine"}}, start, start.AddDate(0, 1, 0))

	if got.Stats.TotalRecords != 1 {
		t.Errorf("TotalRecords = %d, want 1", got.Stats.TotalRecords)
	}
	if got.Stats.Weight != nil || got.Stats.HeartRate != nil || got.Stats.BMI != nil || got.Stats.Systolic != nil {
		t.Errorf("stats = %+v, want metric stats omitted", got.Stats)
	}
	if got.ChartData.Weight == nil || len(got.ChartData.Weight) != 0 {
		t.Errorf("Weight series = %#v, want empty slice", got.ChartData.Weight)
	}
}

func TestBuildChatbotReport(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	day := func(d int) time.Time { return start.AddDate(0, 0, d).Add(9 * time.Hour) }

	chats := []*domain.ChatHistory{
		{Category: domain.CategorySleep, CreatedAt: day(3), DetectedKeywords: []string{"sleep", "stress"}},
		{Category: domain.CategoryStress, CreatedAt: day(1), DetectedKeywords: []string{"stress"}},
		{Category: domain.CategorySleep, CreatedAt: day(1), DetectedKeywords: []string{"sleep", "insomnia"}},
		{Category: domain.CategoryGeneral, CreatedAt: day(40), DetectedKeywords: []string{"water"}},
	}

	got := BuildChatbotReport(chats, start, end)

	if got.Summary.TotalQuestions != 3 {
		t.Errorf("TotalQuestions = %d, want 3", got.Summary.TotalQuestions)
	}
	wantCategories := []CategoryCount{
		{Category: domain.CategorySleep, Count: 2},
		{Category: domain.CategoryStress, Count: 1},
	}
	if !reflect.DeepEqual(got.CategoryStats, wantCategories) {
		t.Errorf("CategoryStats = %+v, want %+v", got.CategoryStats, wantCategories)
	}
	wantDays := []DayCount{{Date: "2025-03-02", Count: 2}, {Date: "2025-03-04", Count: 1}}
	if !reflect.DeepEqual(got.DailyStats, wantDays) {
		t.Errorf("DailyStats = %+v, want %+v", got.DailyStats, wantDays)
	}
	wantKeywords := []KeywordCount{
		{Keyword: "sleep", Count: 2},
		{Keyword: "stress", Count: 2},
		{Keyword: "insomnia", Count: 1},
	}
	if !reflect.DeepEqual(got.TopKeywords, wantKeywords) {
		t.Errorf("TopKeywords = %+v, want %+v", got.TopKeywords, wantKeywords)
	}
}

func TestBuildChatbotReportKeepsTopTenKeywords(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	keywords := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}

	got := BuildChatbotReport([]*domain.ChatHistory{{CreatedAt: start, DetectedKeywords: keywords}}, start, start)

	if len(got.TopKeywords) != 10 {
		t.Fatalf("len(TopKeywords) = %d, want 10", len(got.TopKeywords))
	}
	if got.TopKeywords[0].Keyword != "a" || got.TopKeywords[9].Keyword != "j" {
		t.Errorf("ties not kept in first-seen order: %+v", got.TopKeywords)
	}
}

func TestBuildDashboard(t *testing.T) {
	latest := &domain.HealthRecord{ID: "r1"}
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	var recent []*domain.ChatHistory
	for i := 0; i < 7; i++ {
		recent = append(recent, &domain.ChatHistory{ID: string(rune('a' + i)), Question: "q", Answer: "long answer", CreatedAt: base.Add(-time.Duration(i) * time.Hour)})
	}

	got := BuildDashboard(latest, 12, 7, recent)

	if got.HealthSummary.LatestRecord != latest || got.HealthSummary.TotalRecords != 12 {
		t.Errorf("HealthSummary = %+v", got.HealthSummary)
	}
	if got.ChatSummary.TotalQuestions != 7 {
		t.Errorf("TotalQuestions = %d, want 7", got.ChatSummary.TotalQuestions)
	}
	if len(got.ChatSummary.RecentChats) != 5 || got.ChatSummary.RecentChats[0].ID != "a" {
		t.Errorf("RecentChats = %+v, want first five", got.ChatSummary.RecentChats)
	}

	empty := BuildDashboard(nil, 0, 0, nil)
	if empty.ChatSummary.RecentChats == nil || empty.HealthSummary.LatestRecord != nil {
		t.Errorf("empty dashboard = %+v", empty)
	}
}

func TestMergeDailyActivity(t *testing.T) {
	records := []domain.DailyCount{{Date: "2025-03-02", Count: 3}, {Date: "2025-03-01", Count: 1}}
	chats := []domain.DailyCount{{Date: "2025-03-02", Count: 4}, {Date: "2025-03-05", Count: 2}}

	got := MergeDailyActivity(records, chats)

	want := []ActivityDay{
		{Date: "2025-03-01", HealthRecords: 1, Chats: 0},
		{Date: "2025-03-02", HealthRecords: 3, Chats: 4},
		{Date: "2025-03-05", HealthRecords: 0, Chats: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeDailyActivity() = %+v, want %+v", got, want)
	}
}

func TestBuildAdminStats(t *testing.T) {
	got := BuildAdminStats(AdminInputs{
		TotalHealthRecords:   40,
		TotalChatQuestions:   12,
		TotalActiveReminders: 5,
		Goals:                domain.GoalCounts{Total: 6, Active: 4, Completed: 2},
		Water:                domain.WaterTotals{Records: 9, Amount: 12340},
		Exercise:             domain.ExerciseTotals{Records: 3, Duration: 90, Calories: 700, Distance: 12.5},
		Sleep:                domain.SleepTotals{Records: 2, AverageMinutes: 455},
	})

	if got.WaterIntake.TotalLiters != 12.34 {
		t.Errorf("TotalLiters = %v, want 12.34", got.WaterIntake.TotalLiters)
	}
	if got.SleepTracker.AverageSleepHours != 7.6 {
		t.Errorf("AverageSleepHours = %v, want 7.6", got.SleepTracker.AverageSleepHours)
	}
	if got.HealthGoals.Completed != 2 || got.ExerciseLog.Distance != 12.5 {
		t.Errorf("stats = %+v", got)
	}
	if got.UserGrowth == nil || got.DailyActivity == nil {
		t.Error("series should be empty slices, not nil")
	}

	noSleep := BuildAdminStats(AdminInputs{})
	if noSleep.SleepTracker.AverageSleepHours != 0 {
		t.Errorf("AverageSleepHours = %v, want 0", noSleep.SleepTracker.AverageSleepHours)
	}
}
