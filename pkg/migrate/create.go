package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- +goose StatementEnd
`

// NewMigrationFile writes an empty goose migration to
// <dir>/<YYYYMMDDHHMMSS>_<slug>.sql, stamped with now in UTC. Names that
// reduce to an empty slug, or that are already used in dir, are rejected.
func NewMigrationFile(dir, name string, now time.Time) (string, error) {
	if dir == "" {
		return "", errors.New("migration dir is required")
	}
	slug := migrationSlug(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	version := now.UTC().Format(versionLayout)
	clash, err := firstMatch(dir, "*_"+slug+".sql")
	if err != nil {
		return "", err
	}
	if clash != "" {
		return "", fmt.Errorf("migration %q already exists as %s", slug, clash)
	}
	if clash, err = firstMatch(dir, version+"_*.sql"); err != nil {
		return "", err
	}
	if clash != "" {
		return "", fmt.Errorf("migration version %s already taken by %s", version, clash)
	}

	path := filepath.Join(dir, version+"_"+slug+".sql")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := f.WriteString(migrationTemplate); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}

func firstMatch(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil || len(matches) == 0 {
		return "", err
	}
	return filepath.Base(matches[0]), nil
}

// migrationSlug lower-cases name and folds every run of characters outside
// [a-z0-9] into a single underscore.
func migrationSlug(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			pendingSep = false
			continue
		}
		pendingSep = true
	}
	return b.String()
}
