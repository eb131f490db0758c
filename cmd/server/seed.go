package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Simplici0/bidcost/internal/db"
	"github.com/Simplici0/bidcost/internal/migrations"
	"github.com/Simplici0/bidcost/internal/seed"
)

var seedConstantsFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default fringe and category color constants",
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := db.Open(cfg.DB.Path)
		if err != nil {
			return err
		}
		defer database.Close() //nolint:errcheck

		if err := migrations.Up(database); err != nil {
			return err
		}

		file := seedConstantsFile
		if file == "" {
			file = cfg.Seed.ConstantsFile
		}
		stats, err := seed.Run(cmd.Context(), database, seed.Config{ConstantsFile: file})
		if err != nil {
			return err
		}

		zap.L().Info("seed complete",
			zap.Int("inserts", stats.Inserts),
			zap.Int("updates", stats.Updates),
			zap.String("constants_file", file),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "inserted %d, updated %d constants\n", stats.Inserts, stats.Updates)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedConstantsFile, "constants", "", "YAML constants table to merge (default from config)")
	rootCmd.AddCommand(seedCmd)
}
