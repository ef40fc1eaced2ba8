package dashboard

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hstiawan/visit-tracker/internal/shift"
	"github.com/hstiawan/visit-tracker/internal/theme"
)

// ScheduleItem wraps an annotated schedule so it can be used in a
// bubbles/list.
type ScheduleItem struct {
	Schedule shift.Annotated
}

// FilterValue returns the string used for fuzzy filtering.
func (i ScheduleItem) FilterValue() string { return i.Schedule.ClientName }

// ItemDelegate implements list.ItemDelegate for schedule rows.
type ItemDelegate struct {
	// inflight reports whether a mutation is pending for a schedule id.
	// Shared by reference with the dashboard Model so updates are visible.
	inflight func(id string) bool
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 1 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single schedule row: a status badge, the client name,
// then the shift window and location on the second line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	si, ok := item.(ScheduleItem)
	if !ok {
		return
	}

	s := si.Schedule
	isSelected := index == m.Index()

	statusBadge := theme.StatusStyle(s.Status).Render(string(s.Status))

	pending := ""
	if d.inflight != nil && d.inflight(s.ID) {
		pending = theme.HelpStyle.Render(" (saving...)")
	}

	first := fmt.Sprintf("%s %s%s", statusBadge, s.ClientName, pending)

	when := s.Display.DateWithDay
	if when == "" {
		when = s.ShiftTime
	}
	window := when
	if s.Display.TimeOnly != "" {
		window = fmt.Sprintf("%s %s %s", when, s.Display.TimeOnly, s.Display.Timezone)
	}
	second := theme.HelpStyle.Render(fmt.Sprintf("%s | %s", window, s.Location))

	line := lipgloss.JoinVertical(lipgloss.Left, first, second)
	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string used by
// the active visit card.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}
