// Package sync keeps the query cache honest in the background: a
// periodic staleness sweep reloads the schedule listing once its
// freshness window lapses, and regaining terminal focus forces a
// revalidation of everything on screen.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hstiawan/visit-tracker/internal/cache"
	"github.com/hstiawan/visit-tracker/internal/model"
	"github.com/hstiawan/visit-tracker/internal/query"
)

// SchedulesRefreshedMsg is a tea.Msg sent when the schedule listing
// has been (re)loaded.
type SchedulesRefreshedMsg struct {
	Result *query.Result
	Err    error
}

// DetailRefreshedMsg is a tea.Msg sent when one schedule's detail has
// been (re)loaded.
type DetailRefreshedMsg struct {
	ScheduleID string
	Details    *model.ScheduleDetails
	Err        error
}

// TickMsg drives the live duration display, once per second.
type TickMsg time.Time

// fetchTimeout bounds a single background reload.
const fetchTimeout = 30 * time.Second

// sweepInterval is how often the refresher checks the listing for
// staleness.
const sweepInterval = time.Minute

// refreshRequest names what to reload: the empty string means the
// schedules collection, anything else is a schedule id.
type refreshRequest string

// Refresher orchestrates background revalidation of cached queries
// and bridges the results into the Bubble Tea runtime.
type Refresher struct {
	schedules *query.Schedules
	detail    *query.Detail
	cache     *cache.Cache

	resultCh  chan tea.Msg
	triggerCh chan refreshRequest
	stopCh    chan struct{}

	mu      gosync.Mutex
	running bool
}

// New creates a Refresher over the given query clients and cache.
func New(schedules *query.Schedules, detail *query.Detail, c *cache.Cache) *Refresher {
	return &Refresher{
		schedules: schedules,
		detail:    detail,
		cache:     c,
		resultCh:  make(chan tea.Msg, 16),
		triggerCh: make(chan refreshRequest, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the background loop and returns a command that waits
// for its first result.
func (r *Refresher) Start() tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	r.mu.Unlock()

	go r.loop()
	return r.waitForResult()
}

// Stop halts the background loop.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	close(r.stopCh)
	r.running = false
}

// RefreshSchedules asks for an immediate reload of the listing.
func (r *Refresher) RefreshSchedules() tea.Cmd {
	r.trigger("")
	return nil
}

// RefreshDetail asks for an immediate reload of one schedule.
func (r *Refresher) RefreshDetail(scheduleID string) tea.Cmd {
	r.trigger(refreshRequest(scheduleID))
	return nil
}

// FocusRegained implements the focus-revalidation policy: every cached
// entry is aged out of its freshness window, then the listing reloads.
// Detail views re-trigger their own reload when they next render.
func (r *Refresher) FocusRegained() tea.Cmd {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()
	_ = r.cache.MarkAllStale(ctx)

	r.trigger("")
	return nil
}

// WaitForNextResult returns a command that waits for the next
// background result. Call it again after handling each message to
// keep the subscription alive.
func (r *Refresher) WaitForNextResult() tea.Cmd {
	return r.waitForResult()
}

// Tick returns a command that fires a TickMsg after one second,
// driving the active visit's elapsed-time display.
func Tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// trigger enqueues a refresh request without blocking.
func (r *Refresher) trigger(req refreshRequest) {
	select {
	case r.triggerCh <- req:
	default:
		// Channel full; a refresh is already queued.
	}
}

// loop runs the staleness sweep and serves refresh triggers.
func (r *Refresher) loop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.sweep()
		case req := <-r.triggerCh:
			if req == "" {
				r.reloadSchedules()
			} else {
				r.reloadDetail(string(req))
			}
		}
	}
}

// sweep reloads the listing only when its cache entry has gone stale.
func (r *Refresher) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	_, fresh, ok, err := r.cache.Get(ctx, cache.KeySchedules)
	if err == nil && ok && fresh {
		return
	}
	r.reloadSchedules()
}

func (r *Refresher) reloadSchedules() {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	result, err := r.schedules.Load(ctx)
	r.sendResult(SchedulesRefreshedMsg{Result: result, Err: err})
}

func (r *Refresher) reloadDetail(scheduleID string) {
	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	details, err := r.detail.Get(ctx, scheduleID)
	r.sendResult(DetailRefreshedMsg{ScheduleID: scheduleID, Details: details, Err: err})
}

// sendResult delivers a message without blocking the loop.
func (r *Refresher) sendResult(msg tea.Msg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if the UI is not draining; the next sweep catches up.
	}
}

// waitForResult blocks until the next background result arrives.
func (r *Refresher) waitForResult() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}
