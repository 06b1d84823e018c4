package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vancomm/sweeper"
	"github.com/vancomm/sweeper/internal/database"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := load()
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled() {
			return errors.New("no DATABASE_URL or POSTGRES_HOST set")
		}
		if rollbackSteps > 0 {
			if err := database.Rollback(cfg.Database, sweeper.Migrations, rollbackSteps); err != nil {
				return err
			}
			log.WithField("steps", rollbackSteps).Info("rolled back")
			return nil
		}
		return database.Migrate(cfg.Database, sweeper.Migrations)
	},
}

func init() {
	migrateCmd.Flags().IntVar(&rollbackSteps, "down", 0, "Roll back this many migrations instead")
}
