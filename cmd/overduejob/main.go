// Command overduejob runs the overdue sweep once and exits. Intended to be
// scheduled (cron or similar) alongside the API server.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/miteshanshu/Library-Management-System-Database/config"
	circrepo "github.com/miteshanshu/Library-Management-System-Database/repository/circulation"
	circsvc "github.com/miteshanshu/Library-Management-System-Database/service/circulation"
	"github.com/miteshanshu/Library-Management-System-Database/util/database"
)

func main() {
	var timeout time.Duration

	root := &cobra.Command{
		Use:   "overduejob",
		Short: "Mark overdue loans and create member alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			cfg := config.Load()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			db, err := database.New(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := circsvc.New(circrepo.New(db), log)
			stats, err := svc.GenerateOverdueAlerts(ctx)
			if err != nil {
				return err
			}

			log.Info("overdue sweep finished",
				"loans_marked_overdue", stats.LoansMarkedOverdue,
				"alerts_created", stats.AlertsCreated)
			return nil
		},
	}
	root.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "overall run timeout")

	if err := root.Execute(); err != nil {
		slog.Error("overdue sweep failed", "err", err)
		os.Exit(1)
	}
}
