package health

import (
	"math"

	"github.com/healthmate/healthmate-api/internal/domain"
)

// ExerciseTypeStats is the per-type slice of ExerciseStatistics
type ExerciseTypeStats struct {
	Count         int     `json:"count"`
	TotalDuration float64 `json:"totalDuration"`
	TotalCalories float64 `json:"totalCalories"`
}

// ExerciseStatistics summarises workouts within a window
type ExerciseStatistics struct {
	Window
	TotalExercises  int                          `json:"totalExercises"`
	TotalDuration   float64                      `json:"totalDuration"`
	TotalCalories   float64                      `json:"totalCalories"`
	TotalDistance   float64                      `json:"totalDistance"`
	AverageDuration float64                      `json:"averageDuration"`
	ByType          map[string]ExerciseTypeStats `json:"byType"`
}

// SleepStatistics summarises nights within a window
type SleepStatistics struct {
	Window
	TotalDays           int            `json:"totalDays"`
	TotalSleepMinutes   int            `json:"totalSleepMinutes"`
	AverageSleepMinutes float64        `json:"averageSleepMinutes"`
	AverageSleepHours   float64        `json:"averageSleepHours"`
	ByQuality           map[string]int `json:"byQuality"`
}

// WaterStatistics summarises water intake within a window
type WaterStatistics struct {
	Window
	DailyStats map[string]float64 `json:"dailyStats"`
	Total      float64            `json:"total"`
	Average    float64            `json:"average"`
}

// SeriesStats is min/max/avg/latest over one chart series
type SeriesStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Avg    float64 `json:"avg"`
	Latest float64 `json:"latest"`
}

// ExerciseStats aggregates logs already filtered to w
func ExerciseStats(w Window, logs []*domain.ExerciseLog) ExerciseStatistics {
	stats := ExerciseStatistics{
		Window: w,
		ByType: make(map[string]ExerciseTypeStats),
	}

	for _, l := range logs {
		stats.TotalExercises++
		stats.TotalDuration += l.Duration
		stats.TotalCalories += l.CaloriesBurned
		stats.TotalDistance += l.Distance

		t := stats.ByType[l.ExerciseType]
		t.Count++
		t.TotalDuration += l.Duration
		t.TotalCalories += l.CaloriesBurned
		stats.ByType[l.ExerciseType] = t
	}

	stats.AverageDuration = average(stats.TotalDuration, stats.TotalExercises)
	return stats
}

// SleepStats aggregates nights already filtered to w. Qualities outside the
// four known buckets are not counted.
func SleepStats(w Window, logs []*domain.SleepLog) SleepStatistics {
	stats := SleepStatistics{
		Window: w,
		ByQuality: map[string]int{
			domain.SleepExcellent: 0,
			domain.SleepGood:      0,
			domain.SleepFair:      0,
			domain.SleepPoor:      0,
		},
	}

	for _, l := range logs {
		stats.TotalDays++
		stats.TotalSleepMinutes += l.TotalSleepMinutes
		if _, known := stats.ByQuality[l.Quality]; known {
			stats.ByQuality[l.Quality]++
		}
	}

	stats.AverageSleepMinutes = average(float64(stats.TotalSleepMinutes), stats.TotalDays)
	stats.AverageSleepHours = Round(stats.AverageSleepMinutes/60, 1)
	return stats
}

// WaterStats buckets intakes already filtered to w by calendar day. The
// average divides by days that have at least one entry, not by window length.
func WaterStats(w Window, intakes []*domain.WaterIntake) WaterStatistics {
	stats := WaterStatistics{
		Window:     w,
		DailyStats: make(map[string]float64),
	}

	for _, in := range intakes {
		stats.DailyStats[DayKey(in.Date)] += in.Amount
		stats.Total += in.Amount
	}

	stats.Average = average(stats.Total, len(stats.DailyStats))
	return stats
}

// WaterTotal sums the amount of every intake
func WaterTotal(intakes []*domain.WaterIntake) float64 {
	var total float64
	for _, in := range intakes {
		total += in.Amount
	}
	return total
}

// Summarize computes min/max/avg/latest over values in chronological order.
// Nil for an empty series. avgDecimals controls rounding of the average.
func Summarize(values []float64, avgDecimals int) *SeriesStats {
	if len(values) == 0 {
		return nil
	}

	s := &SeriesStats{
		Min:    math.Inf(1),
		Max:    math.Inf(-1),
		Latest: values[len(values)-1],
	}
	var sum float64
	for _, v := range values {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
		sum += v
	}
	s.Avg = Round(sum/float64(len(values)), avgDecimals)
	return s
}

// average is sum/count, or 0 for an empty set
func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
