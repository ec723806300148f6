package utils

import "time"

// TruncateToDay returns midnight UTC of the calendar day t falls on in UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBefore returns the UTC day that lies days calendar days before now.
func DaysBefore(now time.Time, days int) time.Time {
	return TruncateToDay(now).AddDate(0, 0, -days)
}

// ClampHistoryDays bounds a requested history window to [1, MaxHistoryDays].
func ClampHistoryDays(days int) int {
	if days < 1 {
		return 1
	}
	if days > MaxHistoryDays {
		return MaxHistoryDays
	}
	return days
}
