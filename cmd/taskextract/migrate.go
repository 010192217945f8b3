package main

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/GustavoCremonez/backend/internal/infrastructure/database"
	"github.com/GustavoCremonez/backend/pkg/config"
	pkglogger "github.com/GustavoCremonez/backend/pkg/logger"
)

func newMigrateCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back the extraction history schema",
		Long: `Apply (up, the default) or roll back (down) the embedded SQL migrations
against the database configured through DB_* variables.

Examples:
  taskextract migrate
  taskextract migrate down --steps 1`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction, err := parseDirection(args)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := pkglogger.New(cfg.Server.Environment, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := database.NewPostgresDB(cfg, logger)
			if err != nil {
				return err
			}
			defer database.CloseDB(db)

			n, err := database.Migrate(db, direction, steps, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 0, "maximum number of migrations to apply (0 = all)")
	return cmd
}

func parseDirection(args []string) (migrate.MigrationDirection, error) {
	if len(args) == 0 {
		return migrate.Up, nil
	}
	switch args[0] {
	case "up":
		return migrate.Up, nil
	case "down":
		return migrate.Down, nil
	default:
		return migrate.Up, fmt.Errorf("unknown direction %q (want up or down)", args[0])
	}
}
