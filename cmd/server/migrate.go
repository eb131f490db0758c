package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/bidcost/internal/db"
	"github.com/Simplici0/bidcost/internal/migrations"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := db.Open(cfg.DB.Path)
		if err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		if err := migrations.Up(database); err != nil {
			return err
		}
		version, err := migrations.Version(database)
		if err != nil {
			return err
		}

		zap.L().Info("migrations applied", zap.String("db", cfg.DB.Path), zap.Int64("version", version))
		fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
