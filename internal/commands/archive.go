package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/repository"
	"github.com/balkashynov/duedeck/internal/stats"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [task-id]",
	Short: "Archive a task",
	Long:  "Hide a task from working views. Its status is kept.",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		task, err := repo.Archive(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Archived task #%d: %s\n", task.ID, task.Action)
		return nil
	}),
}

var unarchiveCmd = &cobra.Command{
	Use:     "unarchive [task-id]",
	Aliases: []string{"ua"},
	Short:   "Bring an archived task back",
	Args:    cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		task, err := repo.Unarchive(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Unarchived task #%d: %s\n", task.ID, task.Action)
		fmt.Printf("Status: %s\n", task.Status)
		return nil
	}),
}

var rmCmd = &cobra.Command{
	Use:   "rm [task-id]",
	Short: "Move a task to the trash",
	Long: `Move a task to the trash. Trashed tasks cannot be edited or restored
and are purged for good 30 days after deletion.`,
	Args: cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		task, err := repo.SoftDelete(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Moved task #%d to the trash: %s\n", task.ID, task.Action)
		fmt.Printf("It will be purged in %d days.\n", lifecycle.DaysUntilPurge(task, repo.Now()))
		return nil
	}),
}

var purgeCmd = &cobra.Command{
	Use:   "purge [task-id]",
	Short: "Permanently remove a task from the trash",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		if err := repo.Purge(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Purged task #%d\n", id)
		return nil
	}),
}

var trashCmd = &cobra.Command{
	Use:   "trash",
	Short: "List deleted tasks",
	Long: `List deleted tasks, most recently deleted first, with the days left
before each is purged. --since and --until take dd/mm/yyyy dates.`,
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		since, _ := cmd.Flags().GetString("since")
		until, _ := cmd.Flags().GetString("until")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		now := repo.Now()
		var filter stats.TrashFilter
		if since != "" {
			t, err := time.ParseInLocation("02/01/2006", since, now.Location())
			if err != nil {
				return fmt.Errorf("invalid --since date '%s', use dd/mm/yyyy", since)
			}
			filter.Since = &t
		}
		if until != "" {
			t, err := time.ParseInLocation("02/01/2006", until, now.Location())
			if err != nil {
				return fmt.Errorf("invalid --until date '%s', use dd/mm/yyyy", until)
			}
			end := t.AddDate(0, 0, 1).Add(-time.Millisecond)
			filter.Until = &end
		}

		tasks := repo.Trash(filter)
		if jsonOutput {
			return renderJSON(tasks)
		}
		if len(tasks) == 0 {
			fmt.Println("The trash is empty.")
			return nil
		}
		renderTrashTable(tasks, now)
		return nil
	}),
}

func init() {
	trashCmd.Flags().String("since", "", "Only tasks deleted on or after this date")
	trashCmd.Flags().String("until", "", "Only tasks deleted on or before this date")
	trashCmd.Flags().Bool("json", false, "Output as JSON")
}
