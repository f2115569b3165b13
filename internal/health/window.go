package health

import "time"

// Period selectors
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// Window is a rolling statistics range ending now
type Window struct {
	Period    string    `json:"period"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

// ComputeWindow maps a period selector to a date range ending at now.
// "month" goes back one calendar month; anything else gets the week range.
// An empty selector reports "week"; any other selector is echoed as given.
func ComputeWindow(period string, now time.Time) Window {
	if period == "" {
		period = PeriodWeek
	}
	if period == PeriodMonth {
		return Window{Period: period, StartDate: now.AddDate(0, -1, 0), EndDate: now}
	}
	return Window{Period: period, StartDate: now.AddDate(0, 0, -7), EndDate: now}
}

// DefaultReportRange resolves optional report bounds: end defaults to now and
// start to 30 days before end.
func DefaultReportRange(start, end *time.Time, now time.Time) (time.Time, time.Time) {
	to := now
	if end != nil {
		to = *end
	}
	from := to.Add(-30 * 24 * time.Hour)
	if start != nil {
		from = *start
	}
	return from, to
}

// DayKey is the calendar-date bucket key (UTC) used by every per-day series
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
