package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/repository"
)

// parseStatus accepts a working status by name or short alias
func parseStatus(s string) (models.Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to do", "to-do":
		return models.StatusToDo, nil
	case "progress", "in progress", "in-progress", "doing", "wip":
		return models.StatusInProgress, nil
	case "blocked":
		return models.StatusBlocked, nil
	case "done":
		return models.StatusDone, nil
	default:
		return "", fmt.Errorf("invalid status '%s'. Use: todo, progress, blocked or done", s)
	}
}

var statusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Move a task to another working status",
	Long: `Move a task between To Do, In Progress, Blocked and Done.
Any working status can move to any other. Use 'rm' to delete.`,
	Args: cobra.ExactArgs(2),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		status, err := parseStatus(args[1])
		if err != nil {
			return err
		}

		task, err := repo.SetStatus(cmd.Context(), id, status)
		if err != nil {
			return err
		}
		fmt.Printf("Task #%d is now %s: %s\n", task.ID, task.Status, task.Action)
		return nil
	}),
}

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}

		task, err := repo.SetStatus(cmd.Context(), id, models.StatusDone)
		if err != nil {
			return err
		}
		fmt.Printf("Marked task #%d as done: %s\n", task.ID, task.Action)
		return nil
	}),
}
