package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lticona/strive/internal/domain"
)

var focusTask string

var focusCmd = &cobra.Command{
	Use:   "focus <minutes>",
	Short: "Record a completed focus session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var minutes int
		if _, err := fmt.Sscanf(args[0], "%d", &minutes); err != nil || minutes <= 0 {
			return fmt.Errorf("minutes must be a positive number, got %q", args[0])
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		d := time.Duration(minutes) * time.Minute
		started := time.Now().Add(-d)
		if _, err := a.tracker.RecordFocus(cmd.Context(), domain.TaskID(focusTask), started, d); err != nil {
			return err
		}
		fmt.Printf("Recorded %d minutes of focus time.\n", minutes)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		p, err := a.tracker.ProgressSummary(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Goals:        %d active\n", p.ActiveGoals)
		fmt.Printf("Tasks:        %d open, %d done\n", p.OpenTasks, p.DoneTasks)
		fmt.Printf("Focus (7d):   %d sessions, %d minutes\n", p.FocusSessions, p.FocusMinutes7d)
		return nil
	},
}

func init() {
	focusCmd.Flags().StringVar(&focusTask, "task", "", "task id the session was spent on")
}
