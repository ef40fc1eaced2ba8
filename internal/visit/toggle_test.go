package visit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hstiawan/visit-tracker/internal/model"
	"github.com/hstiawan/visit-tracker/internal/visit"
)

func checklist() []model.Task {
	reason := "ran out of supplies"
	return []model.Task{
		{ID: "t1", ScheduleID: "s1", Description: "Give medication", Status: model.TaskPending},
		{ID: "t2", ScheduleID: "s1", Description: "Prepare meal", Status: model.TaskNotCompleted, Reason: &reason},
	}
}

func TestBeginAppliesTentativeStatus(t *testing.T) {
	tasks := checklist()

	u, err := visit.BeginTaskUpdate(tasks, "t1", model.TaskCompleted, nil)
	require.NoError(t, err)

	assert.Equal(t, model.TaskCompleted, u.Task().Status)
	// The caller's slice is untouched until the caller adopts u.Tasks().
	assert.Equal(t, model.TaskPending, tasks[0].Status)
}

func TestBeginClearsReasonOnCompletion(t *testing.T) {
	tasks := checklist()

	stale := "left over"
	u, err := visit.BeginTaskUpdate(tasks, "t2", model.TaskCompleted, &stale)
	require.NoError(t, err)
	assert.Nil(t, u.Task().Reason)
}

func TestBeginKeepsReasonForNotCompleted(t *testing.T) {
	tasks := checklist()

	reason := "client declined"
	u, err := visit.BeginTaskUpdate(tasks, "t1", model.TaskNotCompleted, &reason)
	require.NoError(t, err)
	require.NotNil(t, u.Task().Reason)
	assert.Equal(t, "client declined", *u.Task().Reason)
}

func TestCommitPrefersServerEcho(t *testing.T) {
	u, err := visit.BeginTaskUpdate(checklist(), "t1", model.TaskCompleted, nil)
	require.NoError(t, err)

	server := model.Task{ID: "t1", ScheduleID: "s1", Status: model.TaskCompleted, UpdatedAt: "2025-06-28T12:00:00Z"}
	tasks := u.Commit(&server)

	assert.Equal(t, "2025-06-28T12:00:00Z", tasks[0].UpdatedAt)
	assert.True(t, u.Resolved())
}

func TestRevertRestoresPreviousState(t *testing.T) {
	u, err := visit.BeginTaskUpdate(checklist(), "t2", model.TaskCompleted, nil)
	require.NoError(t, err)
	require.Nil(t, u.Task().Reason)

	tasks := u.Revert()
	assert.Equal(t, model.TaskNotCompleted, tasks[1].Status)
	require.NotNil(t, tasks[1].Reason)
	assert.Equal(t, "ran out of supplies", *tasks[1].Reason)
}

func TestBeginUnknownTask(t *testing.T) {
	_, err := visit.BeginTaskUpdate(checklist(), "missing", model.TaskCompleted, nil)
	require.Error(t, err)
}
