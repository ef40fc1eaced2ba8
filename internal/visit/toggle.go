package visit

import (
	"fmt"

	"github.com/hstiawan/visit-tracker/internal/model"
)

// TaskUpdate is a two-phase task mutation: Begin applies the new
// status to a copy of the task list so the UI can show it immediately,
// then exactly one of Commit or Revert resolves it once the server
// answers. This replaces the upstream client's optimistic flip, which
// had no rollback when the server rejected the change.
type TaskUpdate struct {
	tasks    []model.Task
	index    int
	previous model.Task
	resolved bool
}

// BeginTaskUpdate copies tasks and tentatively applies the new status
// and reason to the task with the given id. The reason is cleared when
// the new status is completed.
func BeginTaskUpdate(tasks []model.Task, taskID string, status model.TaskStatus, reason *string) (*TaskUpdate, error) {
	index := -1
	for i := range tasks {
		if tasks[i].ID == taskID {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("task %s is not in this checklist", taskID)
	}

	copied := make([]model.Task, len(tasks))
	copy(copied, tasks)

	u := &TaskUpdate{
		tasks:    copied,
		index:    index,
		previous: copied[index],
	}

	copied[index].Status = status
	if status == model.TaskCompleted {
		copied[index].Reason = nil
	} else {
		copied[index].Reason = reason
	}
	return u, nil
}

// Tasks returns the task list with the tentative change applied.
func (u *TaskUpdate) Tasks() []model.Task {
	return u.tasks
}

// Task returns the task carrying the tentative change.
func (u *TaskUpdate) Task() model.Task {
	return u.tasks[u.index]
}

// Commit finalizes the update. When the server echoed the stored task
// back, its version replaces the tentative one.
func (u *TaskUpdate) Commit(server *model.Task) []model.Task {
	u.resolved = true
	if server != nil {
		u.tasks[u.index] = *server
	}
	return u.tasks
}

// Revert restores the task to its pre-update state after a rejected or
// failed mutation.
func (u *TaskUpdate) Revert() []model.Task {
	u.resolved = true
	u.tasks[u.index] = u.previous
	return u.tasks
}

// Resolved reports whether Commit or Revert has been called.
func (u *TaskUpdate) Resolved() bool {
	return u.resolved
}
