package shift

import (
	"fmt"
	"time"
)

// zeroDuration is returned whenever no meaningful elapsed time exists.
const zeroDuration = "00:00:00"

// Elapsed formats the wall-clock time between start and now as
// zero-padded "HH:MM:SS", floor-truncated to the second. Hours grow
// past 24 rather than rolling over into days. A start in the future
// clamps to "00:00:00".
func Elapsed(start, now time.Time) string {
	diff := now.Sub(start)
	if diff < 0 {
		diff = 0
	}

	total := int64(diff / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatDuration formats the elapsed time since the RFC 3339 instant
// start, relative to now. Empty or unparseable input yields
// "00:00:00".
func FormatDuration(start string, now time.Time) string {
	if start == "" {
		return zeroDuration
	}
	t, err := ParseInstant(start)
	if err != nil {
		return zeroDuration
	}
	return Elapsed(t, now)
}
