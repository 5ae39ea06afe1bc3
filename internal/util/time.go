package util

import (
	"fmt"
	"strings"
	"time"
)

const clockHelp = "Valid formats:\n" +
	"• 24-hour format: HH:MM (e.g., '23:30', '09:45')\n" +
	"• 12-hour format: HH:MM[AM|PM] (e.g., '11:30PM', '9:45 AM')"

var clockLayouts = []string{"15:04", "3:04PM", "3:04 PM", "03:04PM", "03:04 PM"}

// ParseTimeString parses a clock time on today's date in either 12-hour or
// 24-hour format.
func ParseTimeString(timeStr string) (time.Time, error) {
	return ParseTimeStringWithNow(timeStr, time.Now())
}

// ParseTimeStringWithNow is like ParseTimeString with an explicit "now".
func ParseTimeStringWithNow(timeStr string, now time.Time) (time.Time, error) {
	timeStr = strings.TrimSpace(strings.ToUpper(timeStr))
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, timeStr); err == nil {
			return today.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s\n\n%s", timeStr, clockHelp)
}

// UntilClock returns how long from now until the next occurrence of the clock
// time. A time that already passed today means tomorrow.
func UntilClock(timeStr string, now time.Time) (time.Duration, error) {
	target, err := ParseTimeStringWithNow(timeStr, now)
	if err != nil {
		return 0, err
	}
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target.Sub(now), nil
}
