package subtitle

import (
	"fmt"
	"math"
)

// FormatSRTTimestamp renders seconds as HH:MM:SS,mmm. Milliseconds are
// truncated; hours grow past two digits when needed. Negative input is
// clamped to zero.
func FormatSRTTimestamp(seconds float64) string {
	totalMillis := int64(math.Floor(math.Max(seconds, 0) * 1000))

	hours := totalMillis / 3_600_000
	minutes := (totalMillis / 60_000) % 60
	secs := (totalMillis / 1000) % 60
	millis := totalMillis % 1000

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

// FormatASSTimestamp renders seconds as H:MM:SS.cc with truncated
// centiseconds. Negative input, which padding can produce, is clamped to
// zero.
func FormatASSTimestamp(seconds float64) string {
	totalCentis := int64(math.Floor(math.Max(seconds, 0) * 100))

	hours := totalCentis / 360_000
	minutes := (totalCentis / 6000) % 60
	secs := (totalCentis / 100) % 60
	centis := totalCentis % 100

	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centis)
}
