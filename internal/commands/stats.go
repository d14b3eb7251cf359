package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/deadline"
	"github.com/balkashynov/duedeck/internal/repository"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the dashboard summary",
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		s := repo.Summary()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return renderJSON(s)
		}

		fmt.Printf("Active tasks:     %d\n", s.Active)
		fmt.Printf("  P1:             %d\n", s.Priorities.P1)
		fmt.Printf("  P2:             %d\n", s.Priorities.P2)
		fmt.Printf("  P3:             %d\n", s.Priorities.P3)
		fmt.Printf("  Backburner:     %d\n", s.Priorities.Backburner)
		fmt.Printf("Overdue:          %d\n", s.Overdue)
		fmt.Printf("Due today:        %d\n", s.DueToday)
		fmt.Printf("Blocked:          %d\n", s.Blocked)
		fmt.Printf("Done (7 days):    %d\n", s.Completed)
		fmt.Printf("Archived:         %d\n", s.Archived)
		fmt.Printf("In trash:         %d\n", s.Trashed)
		return nil
	}),
}

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Show scheduled tasks by deadline date",
	Long: `Show active tasks grouped by the date of their deadline. Inside a day
tasks are ordered by assignee, then by how urgent their due-by is.
Backburner tasks have no deadline and are not shown.`,
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		days := repo.Calendar()
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return renderJSON(days)
		}
		if len(days) == 0 {
			fmt.Println("Nothing scheduled.")
			return nil
		}

		now := repo.Now()
		for i, day := range days {
			if i > 0 {
				fmt.Println()
			}
			label := day.Date.Format("Mon 02 Jan 2006")
			fmt.Println(label)
			fmt.Println(strings.Repeat("-", len(label)))
			for _, t := range day.Tasks {
				mark := " "
				if deadline.TaskOverdue(t, now) {
					mark = "!"
				}
				fmt.Printf("%s %-10s %-10s %s (#%d)\n", mark, truncate(t.Assignee, 10), t.DueBy, t.Action, t.ID)
			}
		}
		return nil
	}),
}

func init() {
	statsCmd.Flags().Bool("json", false, "Output as JSON")
	calendarCmd.Flags().Bool("json", false, "Output as JSON")
}
