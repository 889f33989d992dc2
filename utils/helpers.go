package utils

import "time"

// RangeStart resolves a date-range preset to its window start. Presets are
// the dashboard's 7/30/90-day options.
func RangeStart(preset string, now time.Time) (time.Time, bool) {
	switch preset {
	case "7d":
		return now.AddDate(0, 0, -7), true
	case "30d", "":
		return now.AddDate(0, 0, -30), true
	case "90d":
		return now.AddDate(0, 0, -90), true
	default:
		return time.Time{}, false
	}
}
