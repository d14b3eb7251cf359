package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/duedeck/internal/api"
	"github.com/balkashynov/duedeck/internal/logger"
	"github.com/balkashynov/duedeck/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve the task board over HTTP under /api. Expired trash is purged on
the purge.cron schedule (hourly by default) while the server runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		defer s.close()

		addr := s.cfg.Server.Addr
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			addr = v
		}
		log := logger.Get()

		sched := scheduler.New(time.Local, log)
		err = sched.AddJob("refresh", s.cfg.Purge.Cron, func() error {
			return s.repo.Refresh(context.Background())
		})
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			sched.Stop()
			if info, ok := sched.Job("refresh"); ok {
				log.Info("scheduler summary", "job", info.ID, "runs", info.Runs, "last_run", info.LastRun)
			}
		}()

		fmt.Printf("duedeck API listening on %s\n", addr)
		if info, ok := sched.Job("refresh"); ok && info.NextRun != nil {
			fmt.Printf("Expired trash is purged on %q, next run %s\n", info.CronExpr, info.NextRun.Format("02/01/2006 15:04"))
		}
		log.Info("server starting", "addr", addr, "driver", s.cfg.Store.Driver)
		return api.Serve(ctx, api.NewApp(s.repo), addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
