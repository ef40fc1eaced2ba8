package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hstiawan/visit-tracker/internal/geo"
)

var clockInCmd = &cobra.Command{
	Use:   "clock-in <schedule-id>",
	Short: "Clock in to a schedule at your current location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClock(args[0], true)
	},
}

var clockOutCmd = &cobra.Command{
	Use:   "clock-out <schedule-id>",
	Short: "Clock out of an in-progress visit at your current location",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClock(args[0], false)
	},
}

func runClock(scheduleID string, in bool) error {
	s, err := newStack()
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	pos, err := geo.Acquire(ctx, s.provider, geo.TimeoutFromConfig(s.cfg.Geo))
	if err != nil {
		return fmt.Errorf("acquiring location: %w", err)
	}

	var msg string
	if in {
		msg, err = s.visits.Start(ctx, scheduleID, pos)
	} else {
		msg, err = s.visits.End(ctx, scheduleID, pos)
	}
	if err != nil {
		return err
	}

	fmt.Println(msg)
	fmt.Printf("location %.5f, %.5f\n", pos.Latitude, pos.Longitude)
	return nil
}
