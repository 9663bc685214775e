package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/AppointmentService/internal/infra/storage/migrations"
	"github.com/m04kA/AppointmentService/pkg/dbmetrics"
)

const migrateTimeout = 5 * time.Minute

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Применить миграции схемы базы данных",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			defer log.Close()

			db, err := openDatabase(cfg.Database, log)
			if err != nil {
				return err
			}
			defer db.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			applied, err := migrations.NewMigrator(dbmetrics.Wrap(db, nil), log).Up(ctx)
			if err != nil {
				log.Error("Migrations failed after %d applied: %v", applied, err)
				return err
			}

			log.Info("Migrations complete, applied %d", applied)
			return nil
		},
	}
}
