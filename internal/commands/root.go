package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/balkashynov/duedeck/internal/config"
	"github.com/balkashynov/duedeck/internal/db"
	"github.com/balkashynov/duedeck/internal/logger"
	"github.com/balkashynov/duedeck/internal/repository"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "duedeck",
	Short: "A team task board with derived deadlines",
	Long: `duedeck tracks a small team's tasks by how soon they are due.
Pick a due-by bucket (1 hr, Today, This Week...) and duedeck works out the
priority tier and the exact deadline, keeps a 30-day trash, and shows
the work as a list, a calendar or a priority board.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// session is everything a command needs once config is loaded
type session struct {
	cfg  *config.Config
	gdb  *gorm.DB
	repo *repository.Repository
}

func (s *session) close() {
	db.Close(s.gdb)
}

// openSession loads config, sets up logging, opens the store and loads it
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	gdb, err := db.Open(cfg.Store)
	if err != nil {
		return nil, err
	}

	log := logger.Get()
	repo := repository.New(db.NewStore(gdb),
		repository.WithLogger(log),
		repository.WithAssigneeRequired(cfg.Tasks.RequireAssignee),
		repository.WithResyncHook(func(ev repository.ResyncEvent) {
			fmt.Fprintf(os.Stderr, "Warning: saving failed (%s), local changes were discarded\n", ev.Op)
		}),
	)
	if err := repo.Refresh(ctx); err != nil {
		db.Close(gdb)
		return nil, err
	}
	return &session{cfg: cfg, gdb: gdb, repo: repo}, nil
}

// withRepo wraps a command so it runs against a loaded repository.
// Errors are printed and turn into a non-zero exit.
func withRepo(fn func(cmd *cobra.Command, args []string, repo *repository.Repository) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()
		return fn(cmd, args, s.repo)
	}
}

// parseTaskID parses a task id argument
func parseTaskID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid task ID '%s'", arg)
	}
	return uint(id), nil
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("duedeck %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $HOME/.duedeck/duedeck.yaml)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(unarchiveCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(calendarCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
