package commands

import (
	"fmt"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/repository"
	"github.com/balkashynov/duedeck/internal/stats"
)

var memberCmd = &cobra.Command{
	Use:     "member",
	Aliases: []string{"members"},
	Short:   "Manage team members",
}

var memberAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a team member",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		m, err := repo.AddMember(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added team member %s\n", m.Name)
		return nil
	}),
}

var memberRenameCmd = &cobra.Command{
	Use:   "rename [old] [new]",
	Short: "Rename a team member and reassign their tasks",
	Args:  cobra.ExactArgs(2),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		m, err := repo.RenameMember(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %s to %s\n", args[0], m.Name)
		return nil
	}),
}

var memberRmCmd = &cobra.Command{
	Use:   "rm [name]",
	Short: "Remove a team member, archiving their tasks",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		if err := repo.RemoveMember(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed %s. Their tasks were archived.\n", args[0])
		return nil
	}),
}

var memberLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List team members",
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		members := repo.Members()
		if len(members) == 0 {
			fmt.Println("No team members yet. Use 'duedeck member add <name>'.")
			return nil
		}
		open := map[string]int{}
		for _, t := range stats.Active(repo.Tasks()) {
			open[t.Assignee]++
		}
		for _, m := range members {
			fmt.Printf("%-20s %d open\n", m.Name, open[m.Name])
		}
		return nil
	}),
}

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories", "cat"},
	Short:   "Manage categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		c, err := repo.AddCategory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added category %s (%s)\n", c.Name, slug.Make(c.Name))
		return nil
	}),
}

var categoryRenameCmd = &cobra.Command{
	Use:   "rename [old] [new]",
	Short: "Rename a category and refile its tasks",
	Args:  cobra.ExactArgs(2),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		c, err := repo.RenameCategory(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("Renamed %s to %s\n", args[0], c.Name)
		return nil
	}),
}

var categoryRmCmd = &cobra.Command{
	Use:   "rm [name]",
	Short: "Remove a category. Its tasks keep the old name.",
	Args:  cobra.ExactArgs(1),
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		if err := repo.RemoveCategory(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed category %s\n", args[0])
		return nil
	}),
}

var categoryLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List categories",
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		cats := repo.Categories()
		if len(cats) == 0 {
			fmt.Println("No categories yet. Use 'duedeck category add <name>'.")
			return nil
		}
		for _, c := range cats {
			fmt.Printf("%-24s %s\n", c.Name, slug.Make(c.Name))
		}
		return nil
	}),
}

func init() {
	memberCmd.AddCommand(memberAddCmd, memberRenameCmd, memberRmCmd, memberLsCmd)
	categoryCmd.AddCommand(categoryAddCmd, categoryRenameCmd, categoryRmCmd, categoryLsCmd)
}
