package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/models"
	"github.com/balkashynov/duedeck/internal/parser"
	"github.com/balkashynov/duedeck/internal/repository"
	"github.com/balkashynov/duedeck/internal/tui"
)

var addCmd = &cobra.Command{
	Use:   "add [task description]",
	Short: "Add a new task",
	Long: `Add a new task with optional metadata.

Modes:
  Interactive: duedeck add -i (or just 'duedeck add' with no arguments)
  Quick: duedeck add "Task action" (with optional flags)
  Smart parsing: duedeck add "Ship deck @alice #Films due:today !high"

Smart parsing syntax:
  @name       - Assignee
  #category   - Category
  due:token   - Due-by: 1h, 6hrs, today, 3d, week, month, someday
                (quote multi-word values: due:"this week")
  !energy     - Energy: low, medium, high

Flags override anything parsed from the text.`,
	Args: cobra.ArbitraryArgs,
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		interactive, _ := cmd.Flags().GetBool("interactive")
		if len(args) == 0 {
			interactive = true
		}

		parsed := parser.ParseTitle(strings.Join(args, " "))
		in, err := newTaskFromFlags(cmd, parsed)
		if err != nil {
			return err
		}

		if !interactive && len(parsed.Errors) > 0 {
			fmt.Printf("Found issues with parsing: %s\n", strings.Join(parsed.Errors, ", "))
			fmt.Println("Opening interactive mode for confirmation...")
			interactive = true
		}

		if interactive {
			task, err := tui.RunAddForm(cmd.Context(), repo, in)
			if err != nil {
				return err
			}
			if task == nil {
				fmt.Println("Task creation cancelled.")
				return nil
			}
			printCreated(*task, repo)
			return nil
		}

		task, err := repo.CreateTask(cmd.Context(), in)
		if err != nil {
			return err
		}
		printCreated(task, repo)
		return nil
	}),
}

// newTaskFromFlags merges parsed quick-add fields with explicit flags
func newTaskFromFlags(cmd *cobra.Command, parsed parser.ParsedTask) (repository.NewTask, error) {
	in := repository.NewTask{
		Action:   parsed.Action,
		Assignee: parsed.Assignee,
		Category: parsed.Category,
		DueBy:    parsed.DueBy,
		Energy:   parsed.Energy,
	}

	if v, _ := cmd.Flags().GetString("assignee"); v != "" {
		in.Assignee = v
	}
	if v, _ := cmd.Flags().GetString("category"); v != "" {
		in.Category = v
	}
	if v, _ := cmd.Flags().GetString("due"); v != "" {
		dueBy, err := parser.ParseDueBy(v)
		if err != nil {
			return in, err
		}
		in.DueBy = dueBy
	}
	if v, _ := cmd.Flags().GetString("energy"); v != "" {
		energy, ok := parser.ParseEnergy(v)
		if !ok {
			return in, fmt.Errorf("invalid energy '%s'. Use: low, medium or high", v)
		}
		in.Energy = energy
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		status, err := parseStatus(v)
		if err != nil {
			return in, err
		}
		in.Status = status
	}
	return in, nil
}

func printCreated(task models.Task, repo *repository.Repository) {
	fmt.Printf("Created task #%d: %s\n", task.ID, task.Action)
	if task.Assignee != "" {
		fmt.Printf("  Assignee: %s\n", task.Assignee)
	}
	if task.Category != "" {
		fmt.Printf("  Category: %s\n", task.Category)
	}
	fmt.Printf("  Priority: %s (%s)\n", task.Priority, task.DueBy)
	if task.TargetDeadline != nil {
		fmt.Printf("  %s\n", parser.FormatDeadline(task.TargetDeadline, repo.Now()))
	}
}

func init() {
	addCmd.Flags().BoolP("interactive", "i", false, "Interactive mode with TUI")
	addCmd.Flags().StringP("assignee", "a", "", "Team member the task is assigned to")
	addCmd.Flags().StringP("category", "c", "", "Category name")
	addCmd.Flags().StringP("due", "d", "", "Due-by: "+parser.DueByChoices())
	addCmd.Flags().StringP("energy", "e", "", "Energy: low, medium, high")
	addCmd.Flags().String("status", "", "Initial status: todo, progress, blocked, done")
}
