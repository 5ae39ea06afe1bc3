package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const durationHelp = "Valid formats:\n" +
	"• Minutes as a number (e.g., '90')\n" +
	"• Go duration (e.g., '2h30m', '45m', '1h30m45s')"

// ParseDuration accepts either a whole number of minutes or a Go duration string.
// The error carries format help after a blank line.
func ParseDuration(input string) (time.Duration, error) {
	input = strings.TrimSpace(input)
	if minutes, err := strconv.Atoi(input); err == nil {
		return time.Duration(minutes) * time.Minute, nil
	}

	duration, err := time.ParseDuration(input)
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %q\n\n%s", input, durationHelp)
	}
	return duration, nil
}

// SecondsToDuration converts a whole number of seconds as used by the loop flags.
func SecondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
