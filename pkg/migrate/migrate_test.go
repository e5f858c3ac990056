package migrate

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialect(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":         "postgres",
		"postgres": "postgres",
		"SQLite":   "sqlite3",
		"sqlite3":  "sqlite3",
	}
	for in, want := range cases {
		assert.Equal(t, want, Dialect(in), "driver %q", in)
	}
	assert.Equal(t, "sqlite", EmbeddedDir("sqlite"))
	assert.Equal(t, "migrations", EmbeddedDir("postgres"))
	assert.Equal(t, "pkg/migrate/sqlite", SourceDir("sqlite3"))
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	v, err := ParseVersion(" 20250301121500 ")
	require.NoError(t, err)
	assert.Equal(t, int64(20250301121500), v)

	for _, bad := range []string{"", "2025", "20251399000000", "abc"} {
		_, err := ParseVersion(bad)
		assert.Error(t, err, bad)
	}
}

func TestShippedMigrationsAreValid(t *testing.T) {
	t.Parallel()

	n, err := ValidateDir("migrations")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	n, err = ValidateDir("sqlite")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = ValidateEmbedded("postgres")
	require.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestPostgresMigrationsDeclareCatalogConstraints(t *testing.T) {
	t.Parallel()

	checks := map[string][]string{
		"*_create_breeds.sql": {
			"CREATE TABLE IF NOT EXISTS dog_breeds",
			"CONSTRAINT breed_characteristics_variation_gender_key UNIQUE (size_variation_id, gender)",
			"CHECK (size_category IN ('toy', 'mini', 'small', 'medium', 'large', 'giant'))",
		},
		"*_create_products.sql": {
			"CREATE TABLE IF NOT EXISTS product_size_suitability",
			"CHECK (recommendation_strength BETWEEN 0 AND 100)",
			"CHECK (price > 0)",
		},
		"*_create_bundles.sql": {
			"CHECK (status IN ('active', 'completed'))",
			"CHECK (discount_percentage IN (0, 10, 15))",
			"DROP TABLE IF EXISTS bundle_items",
		},
		"*_create_favorites.sql": {
			"CONSTRAINT favorites_user_product_key UNIQUE (user_id, product_id)",
		},
		"*_create_health_records.sql": {
			"REFERENCES dogs(id) ON DELETE CASCADE",
			"CHECK (activity_level BETWEEN 1 AND 10)",
		},
	}

	for pattern, subs := range checks {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		require.NoError(t, err)
		require.Len(t, matches, 1, pattern)

		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		for _, sub := range subs {
			assert.Contains(t, string(data), sub, pattern)
		}
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, dir, name, body string) {
		t.Helper()
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	t.Run("bad name", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "create_things.sql", "-- +goose Up\n-- +goose Down\n")
		_, err := ValidateDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid migration filename")
	})

	t.Run("duplicate version", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "20250101000000_a.sql", "-- +goose Up\n-- +goose Down\n")
		write(t, dir, "20250101000000_b.sql", "-- +goose Up\n-- +goose Down\n")
		_, err := ValidateDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate migration version")
	})

	t.Run("down before up", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "20250101000000_a.sql", "-- +goose Down\n-- +goose Up\n")
		_, err := ValidateDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must precede")
	})

	t.Run("unbalanced statements", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "20250101000000_a.sql", "-- +goose Up\n-- +goose StatementBegin\n-- +goose Down\n")
		_, err := ValidateDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unbalanced")
	})

	t.Run("reports every problem", func(t *testing.T) {
		dir := t.TempDir()
		write(t, dir, "20250101000000_ok.sql", "-- +goose Up\n-- +goose Down\n")
		write(t, dir, "20250102000000_no_down.sql", "-- +goose Up\n")
		write(t, dir, "notes.sql", "-- +goose Up\n-- +goose Down\n")
		n, err := ValidateDir(dir)
		require.Error(t, err)
		assert.Equal(t, 1, n)
		assert.Len(t, multierr.Errors(err), 2)
		assert.Contains(t, err.Error(), "20250102000000_no_down.sql: missing -- +goose Down")
		assert.Contains(t, err.Error(), "notes.sql: invalid migration filename")
	})
}

func TestNewMigrationFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	now := time.Date(2025, 3, 2, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))
	path, err := NewMigrationFile(dir, "  Add Breed Aliases!! ", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "20250302143000_add_breed_aliases.sql"), path)

	n, err := ValidateDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = NewMigrationFile(dir, "add breed-aliases", now.Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = NewMigrationFile(dir, "other", now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")

	_, err = NewMigrationFile(dir, "!!!", now)
	require.Error(t, err)
}

func TestMigrationSlug(t *testing.T) {
	t.Parallel()

	cases := []struct{ in, want string }{
		{"Create Dogs", "create_dogs"},
		{"--add__index--", "add_index"},
		{"Löwchen seed", "l_wchen_seed"},
		{"   ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, migrationSlug(tc.in), tc.in)
	}
}

func openSQLite(t *testing.T, name string) *sql.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return sqlDB
}

func TestEmbeddedUpAppliesSQLiteSchema(t *testing.T) {
	sqlDB := openSQLite(t, "migrate_up")
	m := Embedded(sqlDB, "sqlite")
	ctx := context.Background()

	require.NoError(t, m.Up(ctx))
	// second run is a no-op
	require.NoError(t, m.Up(ctx))

	for _, table := range []string{"dog_breeds", "products", "product_size_suitability", "bundles", "bundle_items", "dogs", "favorites", "health_records"} {
		assert.True(t, tableExists(t, sqlDB, table), table)
	}

	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20250501090000), version)
}

func TestMigratorToRollsBack(t *testing.T) {
	sqlDB := openSQLite(t, "migrate_to")
	m := Embedded(sqlDB, "sqlite")
	ctx := context.Background()

	require.NoError(t, m.Up(ctx))
	require.NoError(t, m.To(ctx, 0))
	assert.False(t, tableExists(t, sqlDB, "dog_breeds"))

	require.NoError(t, m.To(ctx, 20250301120000))
	assert.True(t, tableExists(t, sqlDB, "dog_breeds"))
	assert.False(t, tableExists(t, sqlDB, "health_records"))
}

func TestMigratorRequiresDB(t *testing.T) {
	t.Parallel()

	err := FromDir(nil, "postgres", "migrations").Up(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db is required")
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return found == name
}
