package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	taskDue     string
	taskMinutes int
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List open tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		_, tasks, err := a.tracker.ListActive(cmd.Context())
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No open tasks.")
			return nil
		}
		for _, t := range tasks {
			if t.Due != "" {
				fmt.Printf("%-40s due %s\n", t.Title, t.Due)
			} else {
				fmt.Println(t.Title)
			}
		}
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		t, err := a.tracker.CreateTask(cmd.Context(), args[0], taskDue, taskMinutes)
		if err != nil {
			return err
		}
		fmt.Printf("Added task %q\n", t.Title)
		return nil
	},
}

var tasksDoneCmd = &cobra.Command{
	Use:   "done <title>",
	Short: "Mark a task complete by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		t, err := a.tracker.CompleteTaskByTitle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Completed %q\n", t.Title)
		return nil
	},
}

var tasksRmCmd = &cobra.Command{
	Use:   "rm <title>",
	Short: "Delete a task by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		t, err := a.tracker.DeleteTaskByTitle(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Deleted task %q\n", t.Title)
		return nil
	},
}

func init() {
	tasksAddCmd.Flags().StringVar(&taskDue, "due", "", "free-form due hint, e.g. today")
	tasksAddCmd.Flags().IntVar(&taskMinutes, "minutes", 0, "estimated minutes")
	tasksCmd.AddCommand(tasksAddCmd, tasksDoneCmd, tasksRmCmd)
}
