package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/lifecycle"
	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/parser"
	"github.com/balkashynov/duedeck/internal/repository"
	"github.com/balkashynov/duedeck/internal/stats"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List tasks",
	Long: `List tasks. By default only active tasks are shown: not done, not
deleted and not archived.

Views:
  active   - working tasks (default)
  all      - every task, including the trash
  archive  - done and archived tasks`,
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		view, _ := cmd.Flags().GetString("view")
		assignee, _ := cmd.Flags().GetString("assignee")
		category, _ := cmd.Flags().GetString("category")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		var tasks []models.Task
		switch view {
		case "active":
			tasks = stats.Active(repo.Tasks())
		case "all":
			tasks = repo.Tasks()
		case "archive":
			tasks = repo.ArchiveView()
		default:
			return fmt.Errorf("unknown view '%s'. Use: active, all or archive", view)
		}
		tasks = filterTasks(tasks, assignee, category)

		if jsonOutput {
			return renderJSON(tasks)
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks found. Use 'duedeck add \"task description\"' to create your first task.")
			return nil
		}
		renderTaskTable(tasks, repo.Now())
		return nil
	}),
}

func filterTasks(tasks []models.Task, assignee, category string) []models.Task {
	if assignee == "" && category == "" {
		return tasks
	}
	var out []models.Task
	for _, t := range tasks {
		if assignee != "" && !strings.EqualFold(t.Assignee, assignee) {
			continue
		}
		if category != "" && !strings.EqualFold(t.Category, category) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// truncate shortens s to width runes, marking the cut with "..."
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// renderTaskTable prints tasks as a fixed-width table
func renderTaskTable(tasks []models.Task, now time.Time) {
	fmt.Printf("%-14s %-11s %-36s %-10s %-12s %-4s %s\n", "ID", "STATUS", "ACTION", "ASSIGNEE", "CATEGORY", "PRIO", "DUE")
	fmt.Println(strings.Repeat("-", 110))

	for _, t := range tasks {
		due := string(t.DueBy)
		if t.TargetDeadline != nil {
			due = parser.FormatDeadline(t.TargetDeadline, now)
		}
		if deadline.TaskOverdue(t, now) {
			due = "! " + due
		}
		status := string(t.Status)
		if t.IsArchived {
			status += "*"
		}

		fmt.Printf("%-14d %-11s %-36s %-10s %-12s %-4s %s\n",
			t.ID,
			status,
			truncate(t.Action, 36),
			truncate(t.Assignee, 10),
			truncate(t.Category, 12),
			stats.Tier(t.Priority),
			due)
	}
}

// renderTrashTable prints deleted tasks with their purge countdown
func renderTrashTable(tasks []models.Task, now time.Time) {
	fmt.Printf("%-14s %-40s %-10s %-17s %s\n", "ID", "ACTION", "ASSIGNEE", "DELETED", "PURGED IN")
	fmt.Println(strings.Repeat("-", 100))
	for _, t := range tasks {
		deleted := ""
		if t.DeletionDate != nil {
			deleted = t.DeletionDate.In(now.Location()).Format("02/01/2006 15:04")
		}
		fmt.Printf("%-14d %-40s %-10s %-17s %d days\n",
			t.ID,
			truncate(t.Action, 40),
			truncate(t.Assignee, 10),
			deleted,
			lifecycle.DaysUntilPurge(t, now))
	}
}

// renderJSON prints v as indented JSON
func renderJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func init() {
	listCmd.Flags().StringP("view", "v", "active", "Which tasks to show: active, all, archive")
	listCmd.Flags().StringP("assignee", "a", "", "Filter by assignee")
	listCmd.Flags().StringP("category", "c", "", "Filter by category")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
