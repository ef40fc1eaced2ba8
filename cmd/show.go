package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hstiawan/visit-tracker/internal/shift"
	"github.com/hstiawan/visit-tracker/internal/theme"
)

var showCmd = &cobra.Command{
	Use:   "show <schedule-id>",
	Short: "Show one schedule with its task checklist",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}
	defer s.Close()

	details, err := s.detail.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s  [%s]\n", details.ClientName, details.Status)
	fmt.Printf("Location:  %s\n", details.Location)
	if d, err := shift.Parse(details.ShiftTime, s.viewer); err == nil {
		fmt.Printf("Shift:     %s %s %s\n", d.DateWithDay, d.TimeOnly, d.Timezone)
	} else {
		fmt.Printf("Shift:     %s\n", details.ShiftTime)
	}
	if details.StartTime != nil {
		fmt.Printf("Clock-in:  %s", *details.StartTime)
		if details.StartLatitude != nil && details.StartLongitude != nil {
			fmt.Printf("  (%.5f, %.5f)", *details.StartLatitude, *details.StartLongitude)
		}
		fmt.Println()
	}
	if details.EndTime != nil {
		fmt.Printf("Clock-out: %s", *details.EndTime)
		if details.EndLatitude != nil && details.EndLongitude != nil {
			fmt.Printf("  (%.5f, %.5f)", *details.EndLatitude, *details.EndLongitude)
		}
		fmt.Println()
	}

	fmt.Printf("\nTasks (%d):\n", len(details.Tasks))
	for _, t := range details.Tasks {
		line := fmt.Sprintf("  %s %s  %s", theme.TaskMark(t.Status), t.ID, t.Description)
		if t.Reason != nil && *t.Reason != "" {
			line += fmt.Sprintf("  (%s)", *t.Reason)
		}
		fmt.Println(line)
	}
	return nil
}
