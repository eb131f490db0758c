package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/bidcost/internal/config"
	"github.com/Simplici0/bidcost/internal/db"
	"github.com/Simplici0/bidcost/internal/migrations"
	"github.com/Simplici0/bidcost/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:           "bidcost",
	Short:         "Construction estimate costing engine",
	Long:          "Prices construction estimates line by line, rolls them up with markup, and reconciles proposal versions and change orders.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		zap.L().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initStore opens the configured database, applies pending migrations and
// wraps it in a store.
func initStore(_ context.Context) (*store.SQLiteStore, error) {
	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(database); err != nil {
		database.Close() //nolint:errcheck
		return nil, err
	}
	return store.NewSQLite(database), nil
}
