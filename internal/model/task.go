package model

// TaskStatus is the completion state of a checklist item.
type TaskStatus string

const (
	TaskCompleted    TaskStatus = "completed"
	TaskInProgress   TaskStatus = "in-progress"
	TaskPending      TaskStatus = "pending"
	TaskNotCompleted TaskStatus = "not_completed"
)

// Task is one checklist item bound to a schedule. Tasks are created
// server-side together with their schedule and are only ever mutated,
// never deleted, by this client.
type Task struct {
	ID         string     `json:"id"`
	ScheduleID string     `json:"schedule_id"`
	Description string    `json:"description"`
	Status     TaskStatus `json:"status"`

	// Reason is free text explaining why a task was not completed.
	// It is meaningful only when Status is TaskNotCompleted and is
	// cleared whenever the task transitions to TaskCompleted.
	Reason *string `json:"reason,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Done reports whether the task has reached a terminal state.
func (t Task) Done() bool {
	return t.Status == TaskCompleted || t.Status == TaskNotCompleted
}
