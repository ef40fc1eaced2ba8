package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hstiawan/visit-tracker/internal/model"
)

var (
	taskScheduleID string
	taskStatus     string
	taskReason     string
)

var taskCmd = &cobra.Command{
	Use:   "task <task-id>",
	Short: "Update a checklist task's status",
	Args:  cobra.ExactArgs(1),
	RunE:  runTask,
}

func init() {
	taskCmd.Flags().StringVar(&taskScheduleID, "schedule", "", "Owning schedule id (refreshes its cached detail)")
	taskCmd.Flags().StringVar(&taskStatus, "status", "completed", "New status: completed, pending or not_completed")
	taskCmd.Flags().StringVar(&taskReason, "reason", "", "Reason, required when status is not_completed")
}

func runTask(cmd *cobra.Command, args []string) error {
	status := model.TaskStatus(taskStatus)
	switch status {
	case model.TaskCompleted, model.TaskPending, model.TaskNotCompleted:
	default:
		return fmt.Errorf("unknown status %q", taskStatus)
	}
	if status == model.TaskNotCompleted && taskReason == "" {
		return fmt.Errorf("--reason is required when status is not_completed")
	}

	s, err := newStack()
	if err != nil {
		return err
	}
	defer s.Close()

	var reason *string
	if taskReason != "" {
		reason = &taskReason
	}

	task, err := s.visits.UpdateTask(context.Background(), taskScheduleID, args[0], status, reason)
	if err != nil {
		return err
	}

	if task != nil {
		fmt.Printf("%s is now %s\n", task.ID, task.Status)
		if task.Reason != nil && *task.Reason != "" {
			fmt.Printf("reason: %s\n", *task.Reason)
		}
		return nil
	}
	fmt.Println("task updated")
	return nil
}
