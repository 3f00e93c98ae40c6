package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	goalMonths  int
	goalMinutes int
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "List goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		goals, _, err := a.tracker.ListActive(cmd.Context())
		if err != nil {
			return err
		}
		if len(goals) == 0 {
			fmt.Println("No goals yet. Add one with: strive goals add \"Learn Spanish\"")
			return nil
		}
		for _, g := range goals {
			fmt.Printf("%-40s %d months, %d min/day\n", g.Title, g.DurationMonths, g.DailyMinutes)
		}
		return nil
	},
}

var goalsAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		g, err := a.tracker.CreateGoal(cmd.Context(), args[0], goalMonths, goalMinutes)
		if err != nil {
			return err
		}
		fmt.Printf("Created goal %q (%d months, %d min/day)\n", g.Title, g.DurationMonths, g.DailyMinutes)
		return nil
	},
}

var goalsRmCmd = &cobra.Command{
	Use:   "rm <title>",
	Short: "Delete a goal by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		g, err := a.tracker.DeleteGoalByTitle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted goal %q\n", g.Title)
		return nil
	},
}

func init() {
	goalsAddCmd.Flags().IntVar(&goalMonths, "months", 0, "goal duration in months")
	goalsAddCmd.Flags().IntVar(&goalMinutes, "minutes", 0, "daily minutes to commit")
	goalsCmd.AddCommand(goalsAddCmd, goalsRmCmd)
}
