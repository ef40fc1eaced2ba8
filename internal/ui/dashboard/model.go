package dashboard

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hstiawan/visit-tracker/internal/keys"
	"github.com/hstiawan/visit-tracker/internal/model"
	"github.com/hstiawan/visit-tracker/internal/query"
	"github.com/hstiawan/visit-tracker/internal/shift"
	"github.com/hstiawan/visit-tracker/internal/theme"
)

// SelectedScheduleMsg is sent when the user opens a schedule's detail.
type SelectedScheduleMsg struct {
	ScheduleID string
}

// LoadMoreMsg is sent when the user asks for the next page.
type LoadMoreMsg struct{}

// ClockInMsg is sent when the user clocks in on the highlighted
// schedule or the active one.
type ClockInMsg struct {
	ScheduleID string
}

// ClockOutMsg is sent when the user clocks out of the active visit.
type ClockOutMsg struct {
	ScheduleID string
}

// Model is the dashboard view: a stats strip, the active visit card
// with a live timer, and the paginated appointment list.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	viewer *time.Location

	schedules  []model.Schedule
	annotated  []shift.Annotated
	pagination *model.Pagination
	stats      shift.Stats
	active     *model.Schedule

	inflight func(id string) bool

	now         time.Time
	refreshedAt time.Time
	loadingMore bool

	width  int
	height int
}

// New creates a dashboard model. The inflight callback reports whether
// a schedule currently has a pending mutation; it may be nil.
func New(k *keys.KeyMap, viewer *time.Location, inflight func(id string) bool, width, height int) Model {
	delegate := ItemDelegate{inflight: inflight}
	l := list.New([]list.Item{}, delegate, width, height)
	l.Title = "Appointments"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:     l,
		keys:     k,
		viewer:   viewer,
		inflight: inflight,
		now:      time.Now(),
		width:    width,
		height:   height,
	}
}

// SetSchedules replaces the dashboard content with a loaded page set.
func (m *Model) SetSchedules(result *query.Result) tea.Cmd {
	if result == nil {
		return nil
	}

	m.schedules = result.Schedules
	p := result.Pagination
	m.pagination = &p
	m.annotated = shift.Annotate(result.Schedules, m.viewer)
	m.stats = shift.CalculateStats(result.Schedules, m.now)
	m.active = shift.ActiveSchedule(result.Schedules)
	m.refreshedAt = time.Now()
	m.loadingMore = false

	items := make([]list.Item, len(m.annotated))
	for i, s := range m.annotated {
		items[i] = ScheduleItem{Schedule: s}
	}
	return m.list.SetItems(items)
}

// Tick advances the clock driving the stats and the live timer.
func (m *Model) Tick(now time.Time) {
	m.now = now
	m.stats = shift.CalculateStats(m.schedules, now)
}

// Selected returns the highlighted schedule id, or the empty string.
func (m Model) Selected() string {
	item, ok := m.list.SelectedItem().(ScheduleItem)
	if !ok {
		return ""
	}
	return item.Schedule.ID
}

// Active returns the schedule shown on the active visit card, if any.
func (m Model) Active() *model.Schedule {
	return m.active
}

// Schedule looks up a loaded schedule by id.
func (m Model) Schedule(id string) (model.Schedule, bool) {
	for _, s := range m.schedules {
		if s.ID == id {
			return s, true
		}
	}
	return model.Schedule{}, false
}

// Update handles messages for the dashboard view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			id := m.Selected()
			if id == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return SelectedScheduleMsg{ScheduleID: id}
			}

		case key.Matches(msg, m.keys.LoadMore):
			if m.pagination == nil || !m.pagination.HasNextPage() || m.loadingMore {
				return m, nil
			}
			m.loadingMore = true
			return m, func() tea.Msg { return LoadMoreMsg{} }

		case key.Matches(msg, m.keys.ClockIn):
			id := m.clockInTarget()
			if id == "" {
				return m, nil
			}
			return m, func() tea.Msg { return ClockInMsg{ScheduleID: id} }

		case key.Matches(msg, m.keys.ClockOut):
			if m.active == nil || m.active.Status != model.StatusInProgress {
				return m, nil
			}
			id := m.active.ID
			return m, func() tea.Msg { return ClockOutMsg{ScheduleID: id} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// clockInTarget resolves which schedule a clock-in applies to: the
// highlighted upcoming schedule, falling back to the active card when
// it shows an upcoming visit.
func (m Model) clockInTarget() string {
	if item, ok := m.list.SelectedItem().(ScheduleItem); ok {
		if item.Schedule.Status == model.StatusUpcoming {
			return item.Schedule.ID
		}
	}
	if m.active != nil && m.active.Status == model.StatusUpcoming {
		return m.active.ID
	}
	return ""
}

// View renders the dashboard.
func (m Model) View() string {
	cards := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderStatsCard(),
		m.renderActiveCard(),
	)

	sections := []string{cards, m.renderList()}
	if hint := m.renderPaginationHint(); hint != "" {
		sections = append(sections, hint)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderStatsCard shows the missed/upcoming/completed counters.
func (m Model) renderStatsCard() string {
	rows := []string{
		theme.StatusStyle(model.StatusInProgress).Render(fmt.Sprintf("%d missed", m.stats.Missed)),
		theme.StatusStyle(model.StatusUpcoming).Render(fmt.Sprintf("%d upcoming", m.stats.Upcoming)),
		theme.StatusStyle(model.StatusCompleted).Render(fmt.Sprintf("%d completed", m.stats.Completed)),
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return theme.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, "Today", body))
}

// renderActiveCard shows the most relevant schedule: the latest
// in-progress visit with a live timer, or the next upcoming one.
func (m Model) renderActiveCard() string {
	if m.active == nil {
		return theme.CardStyle.Render(theme.HelpStyle.Render("No active or upcoming visits"))
	}

	a := shift.Annotated{Schedule: *m.active}
	if annotated := shift.Annotate([]model.Schedule{*m.active}, m.viewer); len(annotated) == 1 {
		a = annotated[0]
	}

	lines := []string{
		fmt.Sprintf("%s %s", theme.StatusStyle(a.Status).Render(string(a.Status)), a.ClientName),
		theme.HelpStyle.Render(a.Location),
	}
	if a.Display.DateWithDay != "" {
		lines = append(lines, fmt.Sprintf("%s %s %s", a.Display.DateWithDay, a.Display.TimeOnly, a.Display.Timezone))
	}

	if a.Status == model.StatusInProgress {
		start := ""
		if a.StartTime != nil {
			start = *a.StartTime
		}
		elapsed := shift.FormatDuration(start, m.now)
		lines = append(lines, theme.DurationStyle.Render(elapsed))
		return theme.ActiveCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
	}

	return theme.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderList shows the appointment rows or an empty state.
func (m Model) renderList() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("\nNo schedules for today.\nPress r to refresh.")
	}
	return m.list.View()
}

// renderPaginationHint shows a page summary and the load-more hint
// whenever the server reports another page.
func (m Model) renderPaginationHint() string {
	if m.pagination == nil {
		return ""
	}

	summary := fmt.Sprintf(
		"showing %d of %d  (page %d/%d)",
		len(m.schedules), m.pagination.TotalItems,
		m.pagination.Page, m.pagination.TotalPages,
	)
	if !m.refreshedAt.IsZero() {
		summary += "  refreshed " + relativeTime(m.refreshedAt)
	}

	if m.loadingMore {
		return theme.HelpStyle.Render(summary + "  loading...")
	}
	if m.pagination.HasNextPage() {
		return theme.HelpStyle.Render(summary + "  press m for more")
	}
	return theme.HelpStyle.Render(summary)
}

// SetSize updates the dashboard dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Cards and hint take roughly seven rows above and below the list.
	listHeight := height - 7
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(width, listHeight)
}
