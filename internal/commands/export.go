package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/export"
	"github.com/balkashynov/duedeck/internal/repository"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tasks, members and categories as YAML",
	RunE: withRepo(func(cmd *cobra.Command, args []string, repo *repository.Repository) error {
		output, _ := cmd.Flags().GetString("output")

		var w io.Writer = os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		snap := export.Build(repo)
		if err := export.Write(w, snap); err != nil {
			return err
		}
		if output != "" {
			fmt.Printf("Exported %d tasks to %s\n", len(snap.Tasks), output)
		}
		return nil
	}),
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
}
