package seed

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/bidcost/internal/constants"
	"github.com/Simplici0/bidcost/internal/db"
	"github.com/Simplici0/bidcost/internal/migrations"
	"github.com/Simplici0/bidcost/internal/pricing"
	"github.com/Simplici0/bidcost/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "seed-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() }) //nolint:errcheck
	require.NoError(t, migrations.Up(database))
	return database
}

func TestRunIsIdempotent(t *testing.T) {
	t.Parallel()
	database := openTestDB(t)
	ctx := context.Background()

	want := len(Defaults())
	for i := 0; i < 5; i++ {
		stats, err := Run(ctx, database, Config{})
		require.NoError(t, err, "iteration %d", i)
		if i == 0 {
			assert.Equal(t, want, stats.Inserts)
		} else {
			assert.Zero(t, stats.Inserts, "iteration %d", i)
		}
		assert.Zero(t, stats.Updates)
	}

	assertCount(t, database, `SELECT COUNT(*) FROM constants WHERE type = ?`, constants.TypeCategoryColor, len(pricing.Categories))
	assertCount(t, database, `SELECT COUNT(*) FROM constants WHERE type = ?`, constants.TypeFringe, len(defaultFringes))
}

func TestRunKeepsEditedDefaults(t *testing.T) {
	t.Parallel()
	database := openTestDB(t)
	ctx := context.Background()

	_, err := Run(ctx, database, Config{})
	require.NoError(t, err)
	_, err = database.Exec(`UPDATE constants SET value = '9.99' WHERE description = 'Local 3'`)
	require.NoError(t, err)

	_, err = Run(ctx, database, Config{})
	require.NoError(t, err)

	var value string
	require.NoError(t, database.QueryRow(`SELECT value FROM constants WHERE description = 'Local 3'`).Scan(&value))
	assert.Equal(t, "9.99", value)
}

func TestRunMergesConstantsFile(t *testing.T) {
	t.Parallel()
	database := openTestDB(t)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "constants.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
constants:
  - type: fringe
    description: Local 3
    value: "10.00"
  - type: fringe
    description: Local 99
    value: "$4.75"
`), 0o600))

	stats, err := Run(ctx, database, Config{ConstantsFile: path})
	require.NoError(t, err)
	assert.Equal(t, len(Defaults())+1, stats.Inserts)
	assert.Equal(t, 1, stats.Updates)

	var value string
	require.NoError(t, database.QueryRow(`SELECT value FROM constants WHERE description = 'Local 3'`).Scan(&value))
	assert.Equal(t, "10.00", value)
}

func TestRunRejectsBadConstantsFile(t *testing.T) {
	t.Parallel()
	database := openTestDB(t)

	_, err := Run(context.Background(), database, Config{ConstantsFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("constants:\n  - value: \"1\"\n"), 0o600))
	_, err = Run(context.Background(), database, Config{ConstantsFile: path})
	assert.Error(t, err)
	assertCount(t, database, `SELECT COUNT(*) FROM constants WHERE type = ?`, constants.TypeFringe, 0)
}

func TestDefaultsCoverEveryCategory(t *testing.T) {
	table := Defaults()
	for _, c := range pricing.Categories {
		assert.NotEqual(t, constants.DefaultColor, constants.ResolveColor(string(c), table), c)
	}
}

func assertCount(t *testing.T, database *sql.DB, query string, arg any, expected int) {
	t.Helper()

	var count int
	require.NoError(t, database.QueryRow(query, arg).Scan(&count))
	assert.Equal(t, expected, count, query)
}

func TestRunSharesUpsertWithStore(t *testing.T) {
	t.Parallel()
	database := openTestDB(t)
	ctx := context.Background()

	_, err := Run(ctx, database, Config{})
	require.NoError(t, err)

	st := store.NewSQLite(database)
	inserted, err := st.UpsertConstant(ctx, constants.Constant{
		Type: constants.TypeFringe, Description: "Local 3", Value: "10.00",
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	path := filepath.Join(t.TempDir(), "constants.yaml")
	doc := "constants:\n  - type: fringe\n    description: Local 3\n    value: \"11.00\"\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	stats, err := Run(ctx, database, Config{ConstantsFile: path})
	require.NoError(t, err)
	assert.Zero(t, stats.Inserts)
	assert.Equal(t, 1, stats.Updates)

	table, err := st.ListConstants(ctx)
	require.NoError(t, err)
	assert.Len(t, table, len(Defaults()))
	assert.InDelta(t, 11, constants.FringeRate("Local 3", table), 1e-9)
}
