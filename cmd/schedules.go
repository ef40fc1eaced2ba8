package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hstiawan/visit-tracker/internal/shift"
)

var schedulesAll bool

var schedulesCmd = &cobra.Command{
	Use:   "schedules",
	Short: "List today's schedules",
	Args:  cobra.NoArgs,
	RunE:  runSchedules,
}

func init() {
	schedulesCmd.Flags().BoolVar(
		&schedulesAll, "all", false,
		"keep loading pages until the listing is complete",
	)
}

func runSchedules(cmd *cobra.Command, args []string) error {
	s, err := newStack()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	result, err := s.schedules.Load(ctx)
	if err != nil {
		return err
	}
	if schedulesAll {
		for result.HasNextPage() {
			if result, err = s.schedules.LoadMore(ctx); err != nil {
				return err
			}
		}
	}

	annotated := shift.Annotate(result.Schedules, s.viewer)
	for _, a := range annotated {
		when := a.ShiftTime
		if a.Display.DateWithDay != "" {
			when = fmt.Sprintf("%s %s %s", a.Display.DateWithDay, a.Display.TimeOnly, a.Display.Timezone)
		}
		fmt.Printf("%-36s  %-12s  %-28s  %s\n", a.ID, a.Status, when, a.ClientName)
	}

	p := result.Pagination
	fmt.Printf("\n%d of %d schedules (page %d/%d)\n",
		len(result.Schedules), p.TotalItems, p.Page, p.TotalPages)
	if result.HasNextPage() {
		fmt.Println("run with --all to load the remaining pages")
	}
	return nil
}
