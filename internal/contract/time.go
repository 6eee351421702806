package contract

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Define the regular expression to capture "N [units]".
var timeoutDurationRe = regexp.MustCompile(`^(\d+)\s*(second|sec|minute|min|hour)s?$`)

// ParseTimeout converts strings like "90 seconds" or "2m" into a time.Duration.
// It first tries Go's built-in time.ParseDuration for standard formats, then falls back
// to custom parsing for human-readable formats.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if duration, err := time.ParseDuration(s); err == nil {
		if duration <= 0 {
			return 0, errors.New("timeout must be positive")
		}
		return duration, nil
	}

	s = strings.ToLower(s)
	matches := timeoutDurationRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid timeout format: %s", s)
	}

	// 1: Value (e.g., "90")
	// 2: Unit (e.g., "second" or "min")
	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout value: %s", matches[1])
	}
	var unit time.Duration
	switch matches[2] {
	case "second", "sec":
		unit = time.Second
	case "minute", "min":
		unit = time.Minute
	case "hour":
		unit = time.Hour
	default:
		return 0, errors.New("unsupported time unit")
	}

	if value == 0 {
		return 0, errors.New("timeout must be positive")
	}
	if value > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("timeout too large: %s", s)
	}
	return time.Duration(value) * unit, nil
}
