package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/parser"
	"github.com/balkashynov/duedeck/internal/repository"
)

var editCmd = &cobra.Command{
	Use:   "edit <task_id>",
	Short: "Edit an existing task",
	Long: `Edit fields of an existing task. Only the flags you pass change.
Changing --due re-derives the priority and deadline from now.

Usage:
  duedeck edit 1760435400000 --due today --assignee bo
  duedeck edit 1760435400000 --category ""     - clear the category`,
	Args: cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		changes, err := editChanges(cmd)
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			return fmt.Errorf("nothing to change. See 'duedeck edit --help'")
		}

		task, err := repo.UpdateTask(cmd.Context(), id, changes...)
		if err != nil {
			return err
		}
		fmt.Printf("Updated task #%d: %s\n", task.ID, task.Action)
		fmt.Printf("  Priority: %s (%s)\n", task.Priority, task.DueBy)
		if task.TargetDeadline != nil {
			fmt.Printf("  %s\n", parser.FormatDeadline(task.TargetDeadline, repo.Now()))
		}
		return nil
	}),
}

// editChanges builds typed changes for every flag the user set
func editChanges(cmd *cobra.Command) ([]lifecycle.Change, error) {
	flags := cmd.Flags()
	var changes []lifecycle.Change

	if flags.Changed("action") {
		v, _ := flags.GetString("action")
		changes = append(changes, lifecycle.SetAction{Action: v})
	}
	if flags.Changed("assignee") {
		v, _ := flags.GetString("assignee")
		changes = append(changes, lifecycle.SetAssignee{Assignee: v})
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		changes = append(changes, lifecycle.SetCategory{Category: v})
	}
	if flags.Changed("due") {
		v, _ := flags.GetString("due")
		dueBy, err := parser.ParseDueBy(v)
		if err != nil {
			return nil, err
		}
		changes = append(changes, lifecycle.SetDueBy{DueBy: dueBy})
	}
	if flags.Changed("energy") {
		v, _ := flags.GetString("energy")
		energy, ok := parser.ParseEnergy(v)
		if !ok {
			return nil, fmt.Errorf("invalid energy '%s'. Use: low, medium or high", v)
		}
		changes = append(changes, lifecycle.SetEnergy{Energy: energy})
	}
	if flags.Changed("status") {
		v, _ := flags.GetString("status")
		status, err := parseStatus(v)
		if err != nil {
			return nil, err
		}
		changes = append(changes, lifecycle.SetStatus{Status: status})
	}
	if flags.Changed("date") {
		v, _ := flags.GetString("date")
		if v == "" {
			changes = append(changes, lifecycle.SetDate{})
		} else {
			d, err := time.ParseInLocation("02/01/2006", v, time.Local)
			if err != nil {
				return nil, fmt.Errorf("invalid date '%s', use dd/mm/yyyy", v)
			}
			changes = append(changes, lifecycle.SetDate{Date: &d})
		}
	}
	return changes, nil
}

func addEditFlags(cmd *cobra.Command) {
	cmd.Flags().String("action", "", "New action text")
	cmd.Flags().StringP("assignee", "a", "", "Team member")
	cmd.Flags().StringP("category", "c", "", "Category name")
	cmd.Flags().StringP("due", "d", "", "Due-by: "+parser.DueByChoices())
	cmd.Flags().StringP("energy", "e", "", "Energy: low, medium, high")
	cmd.Flags().StringP("status", "s", "", "Status: todo, progress, blocked, done")
	cmd.Flags().String("date", "", "Planned day (dd/mm/yyyy, empty to clear)")
}

func init() {
	addEditFlags(editCmd)
}
