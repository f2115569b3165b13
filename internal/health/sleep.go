package health

import (
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

// SleepMinutes returns the minutes between bedtime and wakeTime ("HH:MM").
// A wake time earlier than bedtime is taken to be on the next day. Equal
// times give 0, and unparseable input gives 0.
func SleepMinutes(bedtime, wakeTime string) int {
	bed, ok := minuteOfDay(bedtime)
	if !ok {
		return 0
	}
	wake, ok := minuteOfDay(wakeTime)
	if !ok {
		return 0
	}

	if wake < bed {
		wake += minutesPerDay
	}
	return wake - bed
}

// ValidClock reports whether s is a HH:MM wall-clock time
func ValidClock(s string) bool {
	_, ok := minuteOfDay(s)
	return ok
}

func minuteOfDay(s string) (int, bool) {
	hh, mm, found := strings.Cut(s, ":")
	if !found || len(hh) == 0 || len(hh) > 2 || len(mm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
