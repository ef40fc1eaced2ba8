package app

import (
	"fmt"
	"net/http"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kataras/golog"

	"github.com/hstiawan/visit-tracker/internal/api"
	"github.com/hstiawan/visit-tracker/internal/cache"
	"github.com/hstiawan/visit-tracker/internal/geo"
	"github.com/hstiawan/visit-tracker/internal/model"
	"github.com/hstiawan/visit-tracker/internal/query"
	appsync "github.com/hstiawan/visit-tracker/internal/sync"
	"github.com/hstiawan/visit-tracker/internal/ui"
	"github.com/hstiawan/visit-tracker/internal/ui/clockflow"
	"github.com/hstiawan/visit-tracker/internal/ui/dashboard"
	"github.com/hstiawan/visit-tracker/internal/ui/detail"
	"github.com/hstiawan/visit-tracker/internal/visit"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDashboard ViewState = iota
	ViewDetail
	ViewHelp
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and the shared query and mutation clients.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *KeyMap
	log          *golog.Logger

	schedules   *query.Schedules
	detailQuery *query.Detail
	visits      *visit.Client
	queryCache  *cache.Cache
	refresher   *appsync.Refresher
	viewer      *time.Location

	dashboard dashboard.Model
	detail    detail.Model
	clockFlow clockflow.Model

	ready     bool
	statusMsg string
}

// New wires the full client stack from the given configuration and
// returns the root model. Close must be called once the program exits.
func New(cfg *model.AppConfig, log *golog.Logger) (Model, error) {
	viewer := time.Local
	if cfg.Display.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Display.Timezone)
		if err != nil {
			return Model{}, fmt.Errorf("loading display timezone: %w", err)
		}
		viewer = loc
	}

	apiClient := api.NewClient(
		cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.API.TimeoutSec) * time.Second}),
		api.WithReadRetries(cfg.API.ReadRetries),
		api.WithLogger(log),
	)

	queryCache, err := cache.New(cache.WithFreshFor(time.Duration(cfg.Cache.FreshForSec) * time.Second))
	if err != nil {
		return Model{}, fmt.Errorf("opening query cache: %w", err)
	}

	schedules := query.NewSchedules(apiClient, queryCache, cfg.Display.PageSize)
	detailQuery := query.NewDetail(apiClient, queryCache)
	visits := visit.NewClient(apiClient, queryCache, visit.WithLogger(log))
	refresher := appsync.New(schedules, detailQuery, queryCache)

	provider, err := geo.FromConfig(cfg.Geo)
	if err != nil {
		return Model{}, fmt.Errorf("configuring geolocation: %w", err)
	}

	keys := DefaultKeyMap()
	taskInflight := func(id string) bool { return visits.Inflight().Held(id) }

	m := Model{
		currentView: ViewDashboard,
		keys:        keys,
		log:         log,
		schedules:   schedules,
		detailQuery: detailQuery,
		visits:      visits,
		queryCache:  queryCache,
		refresher:   refresher,
		viewer:      viewer,
		dashboard:   dashboard.New(keys, viewer, taskInflight, 80, 24),
		detail:      detail.New(keys, viewer, taskInflight, 80, 24),
		clockFlow:   clockflow.New(visits, provider, geo.TimeoutFromConfig(cfg.Geo), 80, 24),
	}
	return m, nil
}

// Close releases the query cache. Safe to call after the program quits.
func (m Model) Close() error {
	m.refresher.Stop()
	return m.queryCache.Close()
}

// Init starts the background refresher, requests the first page, and
// kicks off the one-second timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refresher.Start(),
		m.refresher.RefreshSchedules(),
		appsync.Tick(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.dashboard.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.clockFlow.SetSize(w, h)
		return m.updateActiveView(msg)

	case tea.FocusMsg:
		// The terminal regained focus: everything on screen may be
		// stale, so age the cache out and reload.
		return m, tea.Batch(m.refresher.FocusRegained(), m.reloadOpenDetail())

	case appsync.TickMsg:
		now := time.Time(msg)
		m.dashboard.Tick(now)
		m.detail.Tick(now)
		return m, appsync.Tick()

	case appsync.SchedulesRefreshedMsg:
		if msg.Err != nil {
			m.statusMsg = msg.Err.Error()
			return m, m.refresher.WaitForNextResult()
		}
		m.statusMsg = ""
		cmd := m.dashboard.SetSchedules(msg.Result)
		return m, tea.Batch(cmd, m.refresher.WaitForNextResult())

	case appsync.DetailRefreshedMsg:
		if m.detail.ScheduleID() == msg.ScheduleID || m.detail.ScheduleID() == "" {
			if msg.Err != nil {
				m.detail.SetError(msg.Err.Error())
			} else {
				m.detail.SetDetails(msg.Details)
			}
		}
		return m, m.refresher.WaitForNextResult()

	case loadMoreResultMsg:
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			return m, nil
		}
		m.statusMsg = ""
		return m, m.dashboard.SetSchedules(msg.result)

	case taskResultMsg:
		return m.resolveTaskUpdate(msg)

	case dashboard.SelectedScheduleMsg:
		return m.openDetail(msg.ScheduleID)

	case dashboard.LoadMoreMsg:
		return m, m.loadMore()

	case dashboard.ClockInMsg:
		return m, m.clockFlow.Begin(clockflow.ActionClockIn, msg.ScheduleID, m.clientName(msg.ScheduleID))

	case dashboard.ClockOutMsg:
		return m, m.clockFlow.Begin(clockflow.ActionClockOut, msg.ScheduleID, m.clientName(msg.ScheduleID))

	case detail.ClockInMsg:
		return m, m.clockFlow.Begin(clockflow.ActionClockIn, msg.ScheduleID, m.clientName(msg.ScheduleID))

	case detail.ClockOutMsg:
		return m, m.clockFlow.Begin(clockflow.ActionClockOut, msg.ScheduleID, m.clientName(msg.ScheduleID))

	case detail.TaskChangeMsg:
		return m.beginTaskUpdate(msg)

	case detail.BackMsg:
		m.currentView = ViewDashboard
		return m, nil

	case clockflow.DoneMsg:
		// The mutation already invalidated the affected keys; reload
		// whatever is on screen.
		cmds := []tea.Cmd{m.refresher.RefreshSchedules()}
		if m.currentView == ViewDetail {
			cmds = append(cmds, m.refresher.RefreshDetail(msg.ScheduleID))
		}
		return m, tea.Batch(cmds...)

	case clockflow.DismissedMsg:
		return m, nil

	case tea.KeyMsg:
		if m.clockFlow.Active() {
			var cmd tea.Cmd
			m.clockFlow, cmd = m.clockFlow.Update(msg)
			return m, cmd
		}
		if handled, next, cmd := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	if m.clockFlow.Active() {
		var cmd tea.Cmd
		m.clockFlow, cmd = m.clockFlow.Update(msg)
		return m, cmd
	}
	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that apply regardless of view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	// The reason form owns all input while it is open.
	if m.currentView == ViewDetail && m.detail.ReasonFormOpen() && msg.String() != "ctrl+c" {
		return false, m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		m.refresher.Stop()
		return true, m, tea.Quit

	case "q":
		if m.currentView == ViewDashboard {
			m.refresher.Stop()
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case "esc":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}

	case "r":
		// Manual refresh bypasses freshness the same way focus does.
		return true, m, tea.Batch(m.refresher.FocusRegained(), m.reloadOpenDetail())
	}

	return false, m, nil
}

// openDetail switches to the detail view and requests its data.
func (m Model) openDetail(scheduleID string) (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewDetail
	m.detail.SetDetails(nil)
	m.detail.SetLoading(true)
	return m, m.refresher.RefreshDetail(scheduleID)
}

// reloadOpenDetail re-requests the detail view's data when it is open.
func (m Model) reloadOpenDetail() tea.Cmd {
	if m.currentView != ViewDetail || m.detail.ScheduleID() == "" {
		return nil
	}
	return m.refresher.RefreshDetail(m.detail.ScheduleID())
}

// clientName looks up a schedule's client name for the clock overlay.
func (m Model) clientName(scheduleID string) string {
	if s, ok := m.dashboard.Schedule(scheduleID); ok {
		return s.ClientName
	}
	return ""
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		// Static content; nothing to update.
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Visit Tracker", m.syncStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current view, with
// the clock flow overlay taking precedence while it is active.
func (m Model) renderContent() string {
	if m.clockFlow.Active() {
		return m.clockFlow.View()
	}

	switch m.currentView {
	case ViewDashboard:
		return m.dashboard.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.renderHelp()
	default:
		return ""
	}
}

// syncStatus returns a short string for the header's right edge.
func (m Model) syncStatus() string {
	if m.statusMsg != "" {
		return "offline?"
	}
	return "connected"
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewDashboard {
		return m.statusMsg
	}

	if m.clockFlow.Active() {
		return "enter continue | esc dismiss"
	}

	switch m.currentView {
	case ViewDetail:
		if m.detail.ReasonFormOpen() {
			return "enter submit | esc cancel"
		}
		return "esc back | space toggle task | x not completed | i clock in | o clock out | j/k move"
	case ViewHelp:
		return "? close help | esc back"
	default:
		return "q quit | ? help | enter open | m load more | i clock in | o clock out | r refresh"
	}
}
