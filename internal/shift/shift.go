// Package shift holds the pure display logic for schedules: parsing
// shift instants into display fields, elapsed-duration formatting, and
// the summary/active-schedule aggregation. Nothing here touches the
// network or mutates its input.
package shift

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hstiawan/visit-tracker/internal/model"
)

// Display is the derived view of a schedule's shift instant. These
// values are a cache over Schedule.ShiftTime: recompute them whenever
// formatting runs, never treat them as authoritative.
type Display struct {
	// Date is the calendar date in UTC, "YYYY-MM-DD".
	Date string

	// TimeOnly is the time of day in UTC, "HH:mm:ss".
	TimeOnly string

	// Timezone is a "UTC+H"/"UTC-H" label derived from the viewer's
	// offset, not the shift's locale. The upstream product renders it
	// this way; see DESIGN.md before "fixing" the sign.
	Timezone string

	// DateWithDay is a short locale date like "Mon, 15 Jan 2025",
	// rendered in the viewer zone.
	DateWithDay string
}

// Annotated pairs a schedule with its derived display fields.
type Annotated struct {
	model.Schedule
	Display Display
}

// Parse converts an RFC 3339 shift instant into its display fields.
// viewer controls the timezone label and the weekday date; nil means
// the process-local zone.
func Parse(raw string, viewer *time.Location) (Display, error) {
	t, err := ParseInstant(raw)
	if err != nil {
		return Display{}, err
	}
	if viewer == nil {
		viewer = time.Local
	}

	local := t.In(viewer)
	_, offsetSec := local.Zone()

	return Display{
		Date:        t.UTC().Format("2006-01-02"),
		TimeOnly:    t.UTC().Format("15:04:05"),
		Timezone:    offsetLabel(offsetSec),
		DateWithDay: local.Format("Mon, 02 Jan 2006"),
	}, nil
}

// ParseInstant parses an RFC 3339 instant, with or without fractional
// seconds.
func ParseInstant(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse shift time %q", raw)
}

// offsetLabel renders a zone offset the way the upstream client does:
// minutes behind UTC get a leading "-", ahead of UTC a "+", and the
// hour count keeps any half-hour fraction ("UTC+5.5").
func offsetLabel(offsetSec int) string {
	minutesBehind := -offsetSec / 60
	sign := "+"
	if minutesBehind > 0 {
		sign = "-"
	}
	hours := float64(abs(minutesBehind)) / 60
	return "UTC" + sign + strconv.FormatFloat(hours, 'f', -1, 64)
}

// Annotate returns a derived view of the given schedules with display
// fields attached. Schedules whose shift time cannot be parsed keep a
// zero Display. The input slice is not modified.
func Annotate(schedules []model.Schedule, viewer *time.Location) []Annotated {
	out := make([]Annotated, len(schedules))
	for i, s := range schedules {
		out[i] = Annotated{Schedule: s}
		if d, err := Parse(s.ShiftTime, viewer); err == nil {
			out[i].Display = d
		}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
