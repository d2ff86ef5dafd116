package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned when a colour is not "#rrggbb"
var ErrInvalidColor = errors.New("colour must look like #ff8800")

// ParseHexColor parses "#rrggbb" or "rrggbb" into an RGB integer
func ParseHexColor(s string) (int, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidColor, s)
	}
	return int(v), nil
}

// FormatHexColor renders an RGB integer as "#rrggbb"
func FormatHexColor(c int) string {
	return fmt.Sprintf("#%06x", c&0xFFFFFF)
}
