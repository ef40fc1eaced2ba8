package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/hstiawan/visit-tracker/internal/keys"
	"github.com/hstiawan/visit-tracker/internal/model"
	"github.com/hstiawan/visit-tracker/internal/shift"
	"github.com/hstiawan/visit-tracker/internal/theme"
)

// BackMsg signals the parent to navigate back to the dashboard.
type BackMsg struct{}

// TaskChangeMsg signals the parent to run a task status mutation.
type TaskChangeMsg struct {
	ScheduleID string
	TaskID     string
	Status     model.TaskStatus
	Reason     *string
}

// ClockInMsg signals the parent to clock in on this schedule.
type ClockInMsg struct {
	ScheduleID string
}

// ClockOutMsg signals the parent to clock out of this schedule.
type ClockOutMsg struct {
	ScheduleID string
}

// reasonBindings holds the reason form value on the heap so that huh's
// Value() pointer remains valid across Bubble Tea model copies.
type reasonBindings struct {
	reason string
}

// Model is the schedule detail view: the visit header plus the task
// checklist, with a reason form for tasks marked not completed.
type Model struct {
	details *model.ScheduleDetails
	display shift.Display
	tasks   []model.Task

	viewport viewport.Model
	keys     *keys.KeyMap
	viewer   *time.Location

	cursor int
	now    time.Time

	form         *huh.Form
	rb           *reasonBindings
	reasonTaskID string

	inflight func(id string) bool

	width   int
	height  int
	loading bool
	errMsg  string
}

// New creates a detail view model. The inflight callback reports
// whether a task currently has a pending mutation; it may be nil.
func New(k *keys.KeyMap, viewer *time.Location, inflight func(id string) bool, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		viewer:   viewer,
		rb:       &reasonBindings{},
		inflight: inflight,
		now:      time.Now(),
		width:    width,
		height:   height,
	}
}

// SetDetails replaces the displayed schedule and checklist.
func (m *Model) SetDetails(details *model.ScheduleDetails) {
	m.details = details
	m.loading = false
	m.errMsg = ""

	if details == nil {
		m.tasks = nil
		m.viewport.SetContent("")
		return
	}

	m.tasks = details.Tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = 0
	}
	if d, err := shift.Parse(details.ShiftTime, m.viewer); err == nil {
		m.display = d
	} else {
		m.display = shift.Display{}
	}
	m.refresh()
}

// SetTasks swaps in a tentative or resolved task list without waiting
// for a full detail reload.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
	if m.details != nil {
		m.details.Tasks = tasks
	}
	m.refresh()
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetError surfaces a load or mutation failure inline.
func (m *Model) SetError(message string) {
	m.loading = false
	m.errMsg = message
	m.refresh()
}

// ScheduleID returns the displayed schedule's id, or the empty string.
func (m Model) ScheduleID() string {
	if m.details == nil {
		return ""
	}
	return m.details.ID
}

// Tasks returns the checklist as currently displayed.
func (m Model) Tasks() []model.Task {
	return m.tasks
}

// Tick advances the clock driving the elapsed-time readout.
func (m *Model) Tick(now time.Time) {
	m.now = now
	if m.details != nil && m.details.Status == model.StatusInProgress {
		m.refresh()
	}
}

// ReasonFormOpen reports whether the not-completed reason form is up.
func (m Model) ReasonFormOpen() bool {
	return m.form != nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.refresh()
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleTask):
			return m.toggleTask()

		case key.Matches(msg, m.keys.SkipTask):
			return m.openReasonForm()

		case key.Matches(msg, m.keys.ClockIn):
			if m.details != nil && m.details.Status == model.StatusUpcoming {
				id := m.details.ID
				return m, func() tea.Msg { return ClockInMsg{ScheduleID: id} }
			}
			return m, nil

		case key.Matches(msg, m.keys.ClockOut):
			if m.details != nil && m.details.Status == model.StatusInProgress {
				id := m.details.ID
				return m, func() tea.Msg { return ClockOutMsg{ScheduleID: id} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// toggleTask flips the highlighted task between completed and pending.
func (m Model) toggleTask() (Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	if m.inflight != nil && m.inflight(task.ID) {
		return m, nil
	}

	next := model.TaskCompleted
	if task.Status == model.TaskCompleted {
		next = model.TaskPending
	}

	scheduleID := m.details.ID
	taskID := task.ID
	return m, func() tea.Msg {
		return TaskChangeMsg{ScheduleID: scheduleID, TaskID: taskID, Status: next}
	}
}

// openReasonForm starts the not-completed flow for the highlighted
// task. The mutation is deferred until the reason is submitted.
func (m Model) openReasonForm() (Model, tea.Cmd) {
	task, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	if m.inflight != nil && m.inflight(task.ID) {
		return m, nil
	}

	m.reasonTaskID = task.ID
	m.rb.reason = ""
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Why was this task not completed?").
				Placeholder("e.g. client was asleep").
				Value(&m.rb.reason).
				Validate(validateReason),
		),
	).WithWidth(m.formWidth()).WithHeight(8)

	return m, m.form.Init()
}

// updateForm routes messages to the huh form while it is active.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		reason := strings.TrimSpace(m.rb.reason)
		scheduleID := m.details.ID
		taskID := m.reasonTaskID
		m.form = nil
		m.reasonTaskID = ""
		return m, func() tea.Msg {
			return TaskChangeMsg{
				ScheduleID: scheduleID,
				TaskID:     taskID,
				Status:     model.TaskNotCompleted,
				Reason:     &reason,
			}
		}
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		m.reasonTaskID = ""
		return m, nil
	}

	return m, cmd
}

func (m Model) selectedTask() (model.Task, bool) {
	if m.details == nil || m.cursor < 0 || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("Loading schedule...")
	}

	if m.details == nil {
		msg := "No schedule selected"
		if m.errMsg != "" {
			msg = theme.ErrorStyle.Render(m.errMsg)
		}
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(msg)
	}

	if m.form != nil {
		title := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite).
			MarginBottom(1).
			Render("Mark task not completed")
		return lipgloss.NewStyle().
			Padding(1, 2).
			Render(title + "\n" + m.form.View())
	}

	return m.viewport.View()
}

// refresh rebuilds the viewport content.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderContent())
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.details == nil {
		return ""
	}

	d := m.details
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(d.ClientName))

	statusBadge := theme.StatusStyle(d.Status).Render(string(d.Status))
	sections = append(sections, statusBadge)
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Location:"),
		valStyle.Render(d.Location),
	))
	if m.display.DateWithDay != "" {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Shift:"),
			valStyle.Render(fmt.Sprintf("%s %s %s", m.display.DateWithDay, m.display.TimeOnly, m.display.Timezone)),
		))
	}
	if d.StartTime != nil {
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render("Clock-in:"),
			valStyle.Render(*d.StartTime),
		))
	}
	if d.EndTime != nil {
		sections = append(sections, fmt.Sprintf(
			"%s %s",
			metaStyle.Render("Clock-out:"),
			valStyle.Render(*d.EndTime),
		))
	}

	if d.Status == model.StatusInProgress {
		start := ""
		if d.StartTime != nil {
			start = *d.StartTime
		}
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Elapsed:"),
			theme.DurationStyle.Render(shift.FormatDuration(start, m.now)),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", minInt(m.width-4, 80)))
	sections = append(sections, "", separator, "")

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	done := 0
	for _, t := range m.tasks {
		if t.Done() {
			done++
		}
	}
	sections = append(sections, headerStyle.Render(
		fmt.Sprintf("Tasks (%d/%d)", done, len(m.tasks)),
	))
	sections = append(sections, "")

	if len(m.tasks) == 0 {
		sections = append(sections, theme.HelpStyle.Render("No tasks for this visit"))
	}
	for i, t := range m.tasks {
		sections = append(sections, m.renderTask(i, t))
	}

	if m.errMsg != "" {
		sections = append(sections, "", theme.ErrorStyle.Render(m.errMsg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderTask draws one checklist row.
func (m Model) renderTask(index int, t model.Task) string {
	mark := theme.TaskStyle(t.Status).Render(theme.TaskMark(t.Status))
	line := fmt.Sprintf("%s %s", mark, t.Description)

	if t.Reason != nil && *t.Reason != "" {
		line += theme.HelpStyle.Render("  (" + *t.Reason + ")")
	}
	if m.inflight != nil && m.inflight(t.ID) {
		line += theme.HelpStyle.Render("  saving...")
	}

	if index == m.cursor {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.refresh()
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateReason(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("a reason is required when a task is not completed")
	}
	return nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
