package seed

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"

	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/pricing"
	"github.com/Simplici0/bidcost/internal/store"
)

// Config contains the values required by the seed.
type Config struct {
	// ConstantsFile is an optional YAML constants table merged over the
	// defaults.
	ConstantsFile string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// defaultFringes is a sample fringe table so a fresh install can price
// labor out of the box.
var defaultFringes = constants.Table{
	{Type: constants.TypeFringe, Description: "Local 3", Value: "8.50"},
	{Type: constants.TypeFringe, Description: "Local 25", Value: "12.25"},
	{Type: constants.TypeFringe, Description: "Prevailing Wage", Value: "21.40"},
}

// Defaults returns the constants inserted by Run: one color per category
// and the sample fringe table.
func Defaults() constants.Table {
	table := make(constants.Table, 0, len(pricing.Categories)+len(defaultFringes))
	for _, c := range pricing.Categories {
		table = append(table, constants.Constant{
			Type:        constants.TypeCategoryColor,
			Description: string(c) + " Color",
			Color:       constants.ResolveColor(string(c), nil),
		})
	}
	return append(table, defaultFringes...)
}

// Run executes the seed in an idempotent way. Defaults are only inserted
// when missing, so values edited by an administrator survive a reseed.
// Entries of cfg.ConstantsFile are inserted or overwrite existing values.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	var file constants.Table
	if cfg.ConstantsFile != "" {
		var err error
		if file, err = constants.LoadFile(cfg.ConstantsFile); err != nil {
			return Stats{}, err
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, eris.Wrap(err, "seed: begin transaction")
	}

	stats := Stats{}

	for _, c := range Defaults() {
		if err := ensureConstant(ctx, tx, c, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}
	for _, c := range file {
		if err := mergeConstant(ctx, tx, c, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, eris.Wrap(err, "seed: commit transaction")
	}

	return stats, nil
}

func ensureConstant(ctx context.Context, tx *sql.Tx, c constants.Constant, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM constants WHERE type = ? AND description = ? LIMIT 1)`,
		c.Type, c.Description,
	).Scan(&exists); err != nil {
		return eris.Wrapf(err, "seed: check constant %q", c.Description)
	}
	if exists {
		return nil
	}
	return mergeConstant(ctx, tx, c, stats)
}

func mergeConstant(ctx context.Context, tx *sql.Tx, c constants.Constant, stats *Stats) error {
	if c.Type == "" || c.Description == "" {
		return eris.Errorf("seed: constant needs a type and a description: %+v", c)
	}

	inserted, err := store.UpsertConstantTx(ctx, tx, c)
	if err != nil {
		return eris.Wrap(err, "seed: merge constant")
	}
	if inserted {
		stats.Inserts++
	} else {
		stats.Updates++
	}
	return nil
}
