package shift

import (
	"sort"
	"time"

	"github.com/hstiawan/visit-tracker/internal/model"
)

// Stats summarises a loaded set of schedules for the dashboard card.
type Stats struct {
	Missed    int
	Upcoming  int
	Completed int
}

// CalculateStats derives summary counts from the given schedules.
// "Missed" counts in-progress schedules whose shift time is strictly
// before now; it deliberately does not count cancelled schedules or
// past upcoming ones (upstream behavior, kept as-is; see DESIGN.md).
// A nil or empty slice yields zero stats. The input is not modified.
func CalculateStats(schedules []model.Schedule, now time.Time) Stats {
	var stats Stats
	for _, s := range schedules {
		switch s.Status {
		case model.StatusCompleted:
			stats.Completed++
		case model.StatusUpcoming:
			stats.Upcoming++
		case model.StatusInProgress:
			t, err := ParseInstant(s.ShiftTime)
			if err == nil && t.Before(now) {
				stats.Missed++
			}
		}
	}
	return stats
}

// ActiveSchedule selects the single schedule to feature on the
// dashboard:
//
//  1. among in-progress schedules, the one with the latest shift time
//     wins; equal shift times keep their original relative order,
//  2. otherwise the first upcoming schedule in original list order,
//  3. otherwise nil.
//
// The returned schedule is a copy; the input is not modified.
func ActiveSchedule(schedules []model.Schedule) *model.Schedule {
	var inProgress, upcoming []model.Schedule
	for _, s := range schedules {
		switch s.Status {
		case model.StatusInProgress:
			inProgress = append(inProgress, s)
		case model.StatusUpcoming:
			upcoming = append(upcoming, s)
		}
	}

	if len(inProgress) > 0 {
		sort.SliceStable(inProgress, func(i, j int) bool {
			return shiftInstant(inProgress[i]).After(shiftInstant(inProgress[j]))
		})
		active := inProgress[0]
		return &active
	}

	if len(upcoming) > 0 {
		active := upcoming[0]
		return &active
	}

	return nil
}

// shiftInstant parses a schedule's shift time for sorting, mapping
// unparseable values to the zero time so they sort last.
func shiftInstant(s model.Schedule) time.Time {
	t, err := ParseInstant(s.ShiftTime)
	if err != nil {
		return time.Time{}
	}
	return t
}
