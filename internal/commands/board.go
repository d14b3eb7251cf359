package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/repository"
	"github.com/balkashynov/duedeck/internal/tui"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the priority board",
	Long: `Open the interactive board with one column per priority tier and a
column of tasks completed in the last 7 days. Overdue tasks are shown in red.

Keys: tab cycles categories, r refreshes, ? shows help, q quits.`,
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		category, _ := cmd.Flags().GetString("category")
		if category != "" && !hasCategory(repo, category) {
			return fmt.Errorf("%w: %q", repository.ErrCategoryNotFound, category)
		}
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return renderJSON(repo.Board(category))
		}
		return tui.RunBoard(cmd.Context(), repo, category)
	}),
}

func hasCategory(repo *repository.Repository, name string) bool {
	for _, c := range repo.Categories() {
		if c.Name == name {
			return true
		}
	}
	return false
}

func init() {
	boardCmd.Flags().StringP("category", "c", "", "Only show this category")
	boardCmd.Flags().Bool("json", false, "Output the board as JSON")
}
