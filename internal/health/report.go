package health

import (
	"sort"
	"time"

	"github.com/healthmate/healthmate-api/internal/domain"
)

const (
	dashboardRecentChats = 5
	topKeywordLimit      = 10
)

// Point is one (date, value) sample of a chart series
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// BloodPressurePoint is one blood pressure sample
type BloodPressurePoint struct {
	Date      time.Time `json:"date"`
	Systolic  float64   `json:"systolic"`
	Diastolic float64   `json:"diastolic"`
}

// ChartData holds per-metric series in ascending date order
type ChartData struct {
	Weight        []Point              `json:"weight"`
	Height        []Point              `json:"height"`
	BMI           []Point              `json:"bmi"`
	BloodPressure []BloodPressurePoint `json:"bloodPressure"`
	HeartRate     []Point              `json:"heartRate"`
}

// DateRange is a closed report interval
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ReportStats summarises a health report. Metric stats are omitted when the
// series has no samples.
type ReportStats struct {
	TotalRecords int          `json:"totalRecords"`
	DateRange    DateRange    `json:"dateRange"`
	Weight       *SeriesStats `json:"weight,omitempty"`
	Height       *SeriesStats `json:"height,omitempty"`
	BMI          *SeriesStats `json:"bmi,omitempty"`
	HeartRate    *SeriesStats `json:"heartRate,omitempty"`
	Systolic     *SeriesStats `json:"systolic,omitempty"`
	Diastolic    *SeriesStats `json:"diastolic,omitempty"`
}

// HealthReport is chart-ready vitals data for a date range
type HealthReport struct {
	ChartData ChartData   `json:"chartData"`
	Stats     ReportStats `json:"stats"`
}

// BuildHealthReport filters records to [start, end], sorts them by creation
// time and derives the chart series and their stats. A sample is dropped
// from a series when its value is absent or zero.
func BuildHealthReport(records []*domain.HealthRecord, start, end time.Time) HealthReport {
	inRange := make([]*domain.HealthRecord, 0, len(records))
	for _, r := range records {
		if r == nil || r.CreatedAt.Before(start) || r.CreatedAt.After(end) {
			continue
		}
		inRange = append(inRange, r)
	}
	sort.SliceStable(inRange, func(i, j int) bool {
		return inRange[i].CreatedAt.Before(inRange[j].CreatedAt)
	})

	chart := ChartData{
		Weight:        []Point{},
		Height:        []Point{},
		BMI:           []Point{},
		BloodPressure: []BloodPressurePoint{},
		HeartRate:     []Point{},
	}
	for _, r := range inRange {
		if present(r.Weight) {
			chart.Weight = append(chart.Weight, Point{Date: r.CreatedAt, Value: *r.Weight})
		}
		if present(r.Height) {
			chart.Height = append(chart.Height, Point{Date: r.CreatedAt, Value: *r.Height})
		}
		if bmi, ok := ComputeBMI(r.Weight, r.Height); ok {
			chart.BMI = append(chart.BMI, Point{Date: r.CreatedAt, Value: bmi})
		}
		if bp := r.BloodPressure; bp != nil && bp.Systolic != 0 && bp.Diastolic != 0 {
			chart.BloodPressure = append(chart.BloodPressure, BloodPressurePoint{
				Date:      r.CreatedAt,
				Systolic:  bp.Systolic,
				Diastolic: bp.Diastolic,
			})
		}
		if present(r.HeartRate) {
			chart.HeartRate = append(chart.HeartRate, Point{Date: r.CreatedAt, Value: *r.HeartRate})
		}
	}

	systolic := make([]float64, len(chart.BloodPressure))
	diastolic := make([]float64, len(chart.BloodPressure))
	for i, p := range chart.BloodPressure {
		systolic[i] = p.Systolic
		diastolic[i] = p.Diastolic
	}

	return HealthReport{
		ChartData: chart,
		Stats: ReportStats{
			TotalRecords: len(inRange),
			DateRange:    DateRange{Start: start, End: end},
			Weight:       Summarize(values(chart.Weight), 1),
			Height:       Summarize(values(chart.Height), 1),
			BMI:          Summarize(values(chart.BMI), 1),
			HeartRate:    Summarize(values(chart.HeartRate), 0),
			Systolic:     Summarize(systolic, 0),
			Diastolic:    Summarize(diastolic, 0),
		},
	}
}

// CategoryCount is the number of chats in one category
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DayCount is the number of events on one calendar day
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// KeywordCount is how often a detected keyword appeared
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// ChatReportSummary is the header of a chatbot report
type ChatReportSummary struct {
	TotalQuestions int       `json:"totalQuestions"`
	DateRange      DateRange `json:"dateRange"`
}

// ChatbotReport breaks a user's chat history down by category, day and keyword
type ChatbotReport struct {
	Summary       ChatReportSummary `json:"summary"`
	CategoryStats []CategoryCount   `json:"categoryStats"`
	DailyStats    []DayCount        `json:"dailyStats"`
	TopKeywords   []KeywordCount    `json:"topKeywords"`
}

// BuildChatbotReport groups chats within [start, end]. Categories and keywords
// are sorted by count descending with ties kept in first-seen order; days are
// ascending. Only the ten most frequent keywords are kept.
func BuildChatbotReport(chats []*domain.ChatHistory, start, end time.Time) ChatbotReport {
	var (
		categories = newCounter()
		days       = newCounter()
		keywords   = newCounter()
		total      int
	)

	for _, c := range chats {
		if c == nil || c.CreatedAt.Before(start) || c.CreatedAt.After(end) {
			continue
		}
		total++
		categories.add(c.Category)
		days.add(DayKey(c.CreatedAt))
		for _, kw := range c.DetectedKeywords {
			keywords.add(kw)
		}
	}

	report := ChatbotReport{
		Summary: ChatReportSummary{
			TotalQuestions: total,
			DateRange:      DateRange{Start: start, End: end},
		},
		CategoryStats: []CategoryCount{},
		DailyStats:    []DayCount{},
		TopKeywords:   []KeywordCount{},
	}

	for _, k := range categories.byCountDesc() {
		report.CategoryStats = append(report.CategoryStats, CategoryCount{Category: k, Count: categories.counts[k]})
	}

	dayKeys := append([]string(nil), days.order...)
	sort.Strings(dayKeys)
	for _, d := range dayKeys {
		report.DailyStats = append(report.DailyStats, DayCount{Date: d, Count: days.counts[d]})
	}

	for i, k := range keywords.byCountDesc() {
		if i == topKeywordLimit {
			break
		}
		report.TopKeywords = append(report.TopKeywords, KeywordCount{Keyword: k, Count: keywords.counts[k]})
	}

	return report
}

// RecentChat is the dashboard projection of a chat turn
type RecentChat struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

// HealthSummary is the vitals half of the dashboard
type HealthSummary struct {
	LatestRecord *domain.HealthRecord `json:"latestRecord"`
	TotalRecords int64                `json:"totalRecords"`
}

// ChatSummary is the chatbot half of the dashboard
type ChatSummary struct {
	TotalQuestions int64        `json:"totalQuestions"`
	RecentChats    []RecentChat `json:"recentChats"`
}

// Dashboard is the per-user overview
type Dashboard struct {
	HealthSummary HealthSummary `json:"healthSummary"`
	ChatSummary   ChatSummary   `json:"chatSummary"`
}

// BuildDashboard combines reads into the overview. recent must be newest
// first; at most five entries are kept.
func BuildDashboard(latest *domain.HealthRecord, totalRecords, totalChats int64, recent []*domain.ChatHistory) Dashboard {
	chats := make([]RecentChat, 0, dashboardRecentChats)
	for _, c := range recent {
		if len(chats) == dashboardRecentChats {
			break
		}
		chats = append(chats, RecentChat{ID: c.ID, Question: c.Question, Category: c.Category, CreatedAt: c.CreatedAt})
	}

	return Dashboard{
		HealthSummary: HealthSummary{LatestRecord: latest, TotalRecords: totalRecords},
		ChatSummary:   ChatSummary{TotalQuestions: totalChats, RecentChats: chats},
	}
}

// ActivityDay is one row of the admin daily activity series
type ActivityDay struct {
	Date          string `json:"date"`
	HealthRecords int64  `json:"healthRecords"`
	Chats         int64  `json:"chats"`
}

// MergeDailyActivity outer-joins the two daily series on date. A day missing
// from one side gets 0 for it. The result is sorted by date.
func MergeDailyActivity(records, chats []domain.DailyCount) []ActivityDay {
	byDate := make(map[string]*ActivityDay, len(records)+len(chats))
	for _, r := range records {
		day := byDate[r.Date]
		if day == nil {
			day = &ActivityDay{Date: r.Date}
			byDate[r.Date] = day
		}
		day.HealthRecords += r.Count
	}
	for _, c := range chats {
		day := byDate[c.Date]
		if day == nil {
			day = &ActivityDay{Date: c.Date}
			byDate[c.Date] = day
		}
		day.Chats += c.Count
	}

	merged := make([]ActivityDay, 0, len(byDate))
	for _, day := range byDate {
		merged = append(merged, *day)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date < merged[j].Date })
	return merged
}

// AdminInputs are the system-wide aggregates fetched for the admin overview
type AdminInputs struct {
	TotalHealthRecords   int64
	TotalChatQuestions   int64
	TotalActiveReminders int64
	Goals                domain.GoalCounts
	Water                domain.WaterTotals
	Exercise             domain.ExerciseTotals
	Sleep                domain.SleepTotals
	UserGrowth           []domain.DailyCount
	DailyHealthRecords   []domain.DailyCount
	DailyChats           []domain.DailyCount
}

// WaterSummary is the admin view of water intake
type WaterSummary struct {
	TotalRecords int64   `json:"totalRecords"`
	TotalAmount  float64 `json:"totalAmount"`
	TotalLiters  float64 `json:"totalLiters"`
}

// SleepSummary is the admin view of sleep logs
type SleepSummary struct {
	TotalRecords      int64   `json:"totalRecords"`
	AverageSleepHours float64 `json:"averageSleepHours"`
}

// AdminStats is the system-wide overview
type AdminStats struct {
	TotalHealthRecords   int64                 `json:"totalHealthRecords"`
	TotalChatQuestions   int64                 `json:"totalChatQuestions"`
	TotalActiveReminders int64                 `json:"totalActiveReminders"`
	HealthGoals          domain.GoalCounts     `json:"healthGoals"`
	WaterIntake          WaterSummary          `json:"waterIntake"`
	ExerciseLog          domain.ExerciseTotals `json:"exerciseLog"`
	SleepTracker         SleepSummary          `json:"sleepTracker"`
	UserGrowth           []domain.DailyCount   `json:"userGrowth"`
	DailyActivity        []ActivityDay         `json:"dailyActivity"`
}

// BuildAdminStats shapes the raw aggregates into the admin overview
func BuildAdminStats(in AdminInputs) AdminStats {
	growth := in.UserGrowth
	if growth == nil {
		growth = []domain.DailyCount{}
	}

	var sleepHours float64
	if in.Sleep.Records > 0 {
		sleepHours = Round(in.Sleep.AverageMinutes/60, 1)
	}

	return AdminStats{
		TotalHealthRecords:   in.TotalHealthRecords,
		TotalChatQuestions:   in.TotalChatQuestions,
		TotalActiveReminders: in.TotalActiveReminders,
		HealthGoals:          in.Goals,
		WaterIntake: WaterSummary{
			TotalRecords: in.Water.Records,
			TotalAmount:  in.Water.Amount,
			TotalLiters:  Round(in.Water.Amount/1000, 2),
		},
		ExerciseLog: in.Exercise,
		SleepTracker: SleepSummary{
			TotalRecords:      in.Sleep.Records,
			AverageSleepHours: sleepHours,
		},
		UserGrowth:    growth,
		DailyActivity: MergeDailyActivity(in.DailyHealthRecords, in.DailyChats),
	}
}

// counter tallies keys and remembers the order they were first seen in
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) byCountDesc() []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	return keys
}

func present(v *float64) bool {
	return v != nil && *v != 0
}

func values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
