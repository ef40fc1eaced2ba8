package clockflow

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hstiawan/visit-tracker/internal/geo"
	"github.com/hstiawan/visit-tracker/internal/theme"
	"github.com/hstiawan/visit-tracker/internal/visit"
)

// Action names the lifecycle transition being performed.
type Action string

const (
	ActionClockIn  Action = "clock-in"
	ActionClockOut Action = "clock-out"
)

// Phase tracks where the flow currently is.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLocating
	PhaseSubmitting
	PhaseDone
	PhaseFailed
)

// DoneMsg tells the parent the flow finished and was dismissed, so the
// affected views can reload.
type DoneMsg struct {
	ScheduleID string
	Action     Action
}

// DismissedMsg tells the parent the flow was abandoned after a failure.
type DismissedMsg struct{}

// locatedMsg carries the geolocation result.
type locatedMsg struct {
	position geo.Position
	err      error
}

// submittedMsg carries the server's answer to the clock mutation.
type submittedMsg struct {
	message string
	err     error
}

// Model runs a clock-in or clock-out end to end: acquire a position,
// submit the mutation, then show the outcome until dismissed.
type Model struct {
	spinner  spinner.Model
	visits   *visit.Client
	provider geo.Provider
	timeout  time.Duration

	phase      Phase
	action     Action
	scheduleID string
	clientName string
	position   geo.Position
	message    string
	errMsg     string

	width  int
	height int
}

// New creates a clock flow model over the given visit client and
// geolocation provider. A non-positive timeout falls back to
// geo.DefaultTimeout.
func New(visits *visit.Client, provider geo.Provider, timeout time.Duration, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorTeal)

	return Model{
		spinner:  sp,
		visits:   visits,
		provider: provider,
		timeout:  timeout,
		width:    width,
		height:   height,
	}
}

// Active reports whether the flow currently owns the screen.
func (m Model) Active() bool {
	return m.phase != PhaseIdle
}

// Begin starts the flow for one schedule.
func (m *Model) Begin(action Action, scheduleID, clientName string) tea.Cmd {
	m.phase = PhaseLocating
	m.action = action
	m.scheduleID = scheduleID
	m.clientName = clientName
	m.message = ""
	m.errMsg = ""

	return tea.Batch(m.spinner.Tick, m.locate())
}

// locate returns a command that acquires the current position.
func (m Model) locate() tea.Cmd {
	provider := m.provider
	timeout := m.timeout
	return func() tea.Msg {
		pos, err := geo.Acquire(context.Background(), provider, timeout)
		return locatedMsg{position: pos, err: err}
	}
}

// submit returns a command that performs the clock mutation.
func (m Model) submit(pos geo.Position) tea.Cmd {
	visits := m.visits
	action := m.action
	scheduleID := m.scheduleID
	return func() tea.Msg {
		var (
			message string
			err     error
		)
		ctx := context.Background()
		if action == ActionClockIn {
			message, err = visits.Start(ctx, scheduleID, pos)
		} else {
			message, err = visits.End(ctx, scheduleID, pos)
		}
		return submittedMsg{message: message, err: err}
	}
}

// Update handles messages while the flow is active.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case locatedMsg:
		if m.phase != PhaseLocating {
			return m, nil
		}
		if msg.err != nil {
			m.phase = PhaseFailed
			m.errMsg = locationErrorText(msg.err)
			return m, nil
		}
		m.position = msg.position
		m.phase = PhaseSubmitting
		return m, m.submit(msg.position)

	case submittedMsg:
		if m.phase != PhaseSubmitting {
			return m, nil
		}
		if msg.err != nil {
			m.phase = PhaseFailed
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.phase = PhaseDone
		m.message = msg.message
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc":
			return m.dismiss()
		}
	}

	return m, nil
}

// dismiss resets the flow and tells the parent what happened.
func (m Model) dismiss() (Model, tea.Cmd) {
	phase := m.phase
	scheduleID := m.scheduleID
	action := m.action

	if phase == PhaseLocating || phase == PhaseSubmitting {
		// The mutation may still be running; ignore keys until it
		// resolves so the in-flight guard stays meaningful.
		return m, nil
	}

	m.phase = PhaseIdle
	m.scheduleID = ""
	m.message = ""
	m.errMsg = ""

	if phase == PhaseDone {
		return m, func() tea.Msg {
			return DoneMsg{ScheduleID: scheduleID, Action: action}
		}
	}
	return m, func() tea.Msg { return DismissedMsg{} }
}

// View renders the flow overlay.
func (m Model) View() string {
	if m.phase == PhaseIdle {
		return ""
	}

	title := "Clock in"
	if m.action == ActionClockOut {
		title = "Clock out"
	}
	if m.clientName != "" {
		title += " - " + m.clientName
	}

	var body string
	switch m.phase {
	case PhaseLocating:
		body = fmt.Sprintf("%s Acquiring your location...", m.spinner.View())
	case PhaseSubmitting:
		body = fmt.Sprintf(
			"%s Recording at %.5f, %.5f ...",
			m.spinner.View(), m.position.Latitude, m.position.Longitude,
		)
	case PhaseDone:
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			theme.StatusStyle("completed").Render(m.message),
			theme.HelpStyle.Render(fmt.Sprintf(
				"location %.5f, %.5f", m.position.Latitude, m.position.Longitude,
			)),
			"",
			theme.HelpStyle.Render("press enter to continue"),
		)
	case PhaseFailed:
		body = lipgloss.JoinVertical(
			lipgloss.Left,
			theme.ErrorStyle.Render(m.errMsg),
			"",
			theme.HelpStyle.Render("press esc to go back and retry"),
		)
	}

	card := theme.ActiveCardStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).Render(title),
		"",
		body,
	))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, card)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// locationErrorText maps geolocation failures to actionable text.
func locationErrorText(err error) string {
	switch {
	case geo.IsPositionError(err, geo.PermissionDenied):
		return "Location permission denied. Check the geolocation provider configuration."
	case geo.IsPositionError(err, geo.Timeout):
		return "Timed out acquiring your location. Try again."
	case geo.IsPositionError(err, geo.PositionUnavailable):
		return "Your location is currently unavailable. Try again."
	default:
		return err.Error()
	}
}
