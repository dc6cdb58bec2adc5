package utils

import (
	"fmt"
	"time"
)

// DateLayout is the key format of a diary day.
const DateLayout = "2006-01-02"

// DateKey formats t as a diary key using t's own location for the day boundary.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate validates a diary key and returns local midnight of that day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// WeekStrip returns the keys of the days from center-3 to center+3.
func WeekStrip(center time.Time) []string {
	days := make([]string, 0, 7)
	for offset := -3; offset <= 3; offset++ {
		days = append(days, DateKey(center.AddDate(0, 0, offset)))
	}
	return days
}
