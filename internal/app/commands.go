package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hstiawan/visit-tracker/internal/model"
	"github.com/hstiawan/visit-tracker/internal/query"
	"github.com/hstiawan/visit-tracker/internal/ui/detail"
	"github.com/hstiawan/visit-tracker/internal/visit"
)

// commandTimeout bounds foreground requests issued from key presses.
const commandTimeout = 30 * time.Second

// loadMoreResultMsg carries the appended listing after a load-more.
type loadMoreResultMsg struct {
	result *query.Result
	err    error
}

// taskResultMsg carries the server's answer to a task mutation along
// with the pending two-phase update it resolves.
type taskResultMsg struct {
	update     *visit.TaskUpdate
	scheduleID string
	task       *model.Task
	err        error
}

// loadMore fetches the next schedule page in the background.
func (m Model) loadMore() tea.Cmd {
	schedules := m.schedules
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		result, err := schedules.LoadMore(ctx)
		return loadMoreResultMsg{result: result, err: err}
	}
}

// beginTaskUpdate applies the tentative change to the open checklist
// and dispatches the mutation.
func (m Model) beginTaskUpdate(msg detail.TaskChangeMsg) (tea.Model, tea.Cmd) {
	update, err := visit.BeginTaskUpdate(m.detail.Tasks(), msg.TaskID, msg.Status, msg.Reason)
	if err != nil {
		m.detail.SetError(err.Error())
		return m, nil
	}
	m.detail.SetTasks(update.Tasks())

	visits := m.visits
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		task, err := visits.UpdateTask(ctx, msg.ScheduleID, msg.TaskID, msg.Status, msg.Reason)
		return taskResultMsg{update: update, scheduleID: msg.ScheduleID, task: task, err: err}
	}
}

// resolveTaskUpdate commits or reverts the pending change once the
// server has answered.
func (m Model) resolveTaskUpdate(msg taskResultMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.detail.SetTasks(msg.update.Revert())
		m.detail.SetError(msg.err.Error())
		return m, nil
	}

	m.detail.SetTasks(msg.update.Commit(msg.task))
	// The mutation invalidated the owning schedule; reload so the
	// detail view reflects the server's state.
	return m, m.refresher.RefreshDetail(msg.scheduleID)
}
