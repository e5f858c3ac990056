package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

const versionLayout = "20060102150405"

// Dialect maps a configured database driver onto the goose dialect name.
func Dialect(driver string) string {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return "sqlite3"
	default:
		return "postgres"
	}
}

// SourceDir is where new migrations for driver are written in the repo.
func SourceDir(driver string) string {
	return "pkg/migrate/" + EmbeddedDir(driver)
}

// ParseVersion accepts a goose version in YYYYMMDDHHMMSS form.
func ParseVersion(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(versionLayout, raw); err != nil {
		return 0, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS)", raw)
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Migrator runs goose against one set of migration files, either the copy
// compiled into the binary or a directory on disk.
type Migrator struct {
	db      *sql.DB
	dialect string
	fsys    fs.FS
	dir     string
}

// Embedded returns a Migrator over the migrations shipped in the binary.
func Embedded(db *sql.DB, driver string) *Migrator {
	return &Migrator{db: db, dialect: Dialect(driver), fsys: embedded, dir: EmbeddedDir(driver)}
}

// FromDir returns a Migrator reading migrations from dir on disk.
func FromDir(db *sql.DB, driver, dir string) *Migrator {
	return &Migrator{db: db, dialect: Dialect(driver), dir: dir}
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) error {
	return m.with(func() error {
		return goose.UpContext(ctx, m.db, m.dir)
	}, "up")
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) error {
	return m.with(func() error {
		return goose.DownContext(ctx, m.db, m.dir)
	}, "down")
}

// Status logs applied and pending migrations through goose's logger.
func (m *Migrator) Status(ctx context.Context) error {
	return m.with(func() error {
		return goose.StatusContext(ctx, m.db, m.dir)
	}, "status")
}

// Version returns the schema version currently recorded in the database.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	var version int64
	err := m.with(func() error {
		var err error
		version, err = goose.GetDBVersionContext(ctx, m.db)
		return err
	}, "version")
	return version, err
}

// To moves the schema up or down until it sits at target.
func (m *Migrator) To(ctx context.Context, target int64) error {
	return m.with(func() error {
		current, err := goose.GetDBVersionContext(ctx, m.db)
		if err != nil {
			return err
		}
		switch {
		case current < target:
			return goose.UpToContext(ctx, m.db, m.dir, target)
		case current > target:
			return goose.DownToContext(ctx, m.db, m.dir, target)
		}
		return nil
	}, fmt.Sprintf("to %d", target))
}

// with serialises access to goose, whose dialect and base FS are globals.
func (m *Migrator) with(fn func() error, op string) error {
	if m == nil || m.db == nil {
		return fmt.Errorf("goose %s: db is required", op)
	}
	if m.dir == "" {
		return fmt.Errorf("goose %s: dir is required", op)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(m.fsys)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect(m.dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := fn(); err != nil {
		return fmt.Errorf("goose %s (%s): %w", op, m.dir, err)
	}
	return nil
}
