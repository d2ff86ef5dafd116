package music

import (
	"fmt"
	"strings"
	"time"
)

// FormatTrackDuration renders m:ss, or h:mm:ss for an hour or more
func FormatTrackDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ProgressBar renders a bar of width segments with a knob at the current position
func ProgressBar(position, length time.Duration, width int) string {
	if width < 2 {
		width = 2
	}
	knob := 0
	if length > 0 {
		if position > length {
			position = length
		}
		if position > 0 {
			knob = int(int64(width-1) * int64(position) / int64(length))
		}
	}
	return strings.Repeat("▬", knob) + "🔘" + strings.Repeat("▬", width-1-knob)
}
