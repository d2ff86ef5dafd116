package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ErrInvalidDuration is returned when a duration string cannot be parsed
var ErrInvalidDuration = errors.New("invalid duration")

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day
)

// ParseDuration parses durations such as "90", "10m", "1h30m", "2d" or "3mo".
// A bare number is read as seconds.
func ParseDuration(str string) (time.Duration, error) {
	var total time.Duration
	var numBuf, unitBuf strings.Builder

	flush := func() error {
		d, err := parseDurationComponent(numBuf.String(), unitBuf.String())
		if err != nil {
			return err
		}
		if total > math.MaxInt64-d {
			return fmt.Errorf("%w: duration is out of range", ErrInvalidDuration)
		}
		total += d
		numBuf.Reset()
		unitBuf.Reset()
		return nil
	}

	for _, r := range strings.ToLower(str) {
		if unicode.IsSpace(r) {
			continue
		}

		if unicode.IsDigit(r) {
			// A digit after a unit starts the next component
			if unitBuf.Len() > 0 {
				if err := flush(); err != nil {
					return 0, err
				}
			}
			numBuf.WriteRune(r)
			continue
		}

		if numBuf.Len() == 0 {
			return 0, fmt.Errorf("%w: unit %q has no amount", ErrInvalidDuration, string(r))
		}
		unitBuf.WriteRune(r)
	}

	if numBuf.Len() == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, str)
	}
	if err := flush(); err != nil {
		return 0, err
	}

	if total <= 0 {
		return 0, fmt.Errorf("%w: duration must be greater than zero", ErrInvalidDuration)
	}
	return total, nil
}

func parseDurationComponent(numStr, unitStr string) (time.Duration, error) {
	n, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDuration, err)
	}

	var unit time.Duration
	switch unitStr {
	case "", "s", "sec", "secs", "second", "seconds":
		unit = time.Second
	case "m", "min", "mins", "minute", "minutes":
		unit = time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		unit = time.Hour
	case "d", "day", "days":
		unit = day
	case "w", "wk", "wks", "week", "weeks":
		unit = week
	case "mo", "mos", "month", "months":
		unit = month
	default:
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidDuration, unitStr)
	}

	if n > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("%w: %s%s is out of range", ErrInvalidDuration, numStr, unitStr)
	}
	return time.Duration(n) * unit, nil
}

// HumanDuration renders a duration as "1d 2h 3m", dropping empty parts
func HumanDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}

	parts := make([]string, 0, 4)
	days := d / day
	d -= days * day
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}
