package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var fileNameRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// ValidateDir checks the migrations in a directory on disk.
func ValidateDir(dir string) (int, error) {
	if dir == "" {
		return 0, fmt.Errorf("dir is required")
	}
	return Validate(os.DirFS(dir))
}

// ValidateEmbedded checks the migrations compiled in for driver.
func ValidateEmbedded(driver string) (int, error) {
	sub, err := fs.Sub(embedded, EmbeddedDir(driver))
	if err != nil {
		return 0, err
	}
	return Validate(sub)
}

// Validate inspects every .sql file at the root of fsys for a well-formed
// name, a unique version and balanced goose annotations. All problems are
// reported together; the count covers the files that passed.
func Validate(fsys fs.FS) (int, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return 0, fmt.Errorf("listing migrations: %w", err)
	}

	var problems error
	versions := make(map[string]string, len(entries))
	valid := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		if err := validateFile(fsys, name, versions); err != nil {
			problems = multierr.Append(problems, fmt.Errorf("%s: %w", name, err))
			continue
		}
		valid++
	}
	return valid, problems
}

func validateFile(fsys fs.FS, name string, versions map[string]string) error {
	m := fileNameRe.FindStringSubmatch(name)
	if m == nil {
		return fmt.Errorf("invalid migration filename (expected YYYYMMDDHHMMSS_name.sql)")
	}
	if prev, dup := versions[m[1]]; dup {
		return fmt.Errorf("duplicate migration version %s, also used by %s", m[1], prev)
	}
	versions[m[1]] = name

	body, err := fs.ReadFile(fsys, name)
	if err != nil {
		return err
	}
	return checkAnnotations(string(body))
}

func checkAnnotations(sql string) error {
	up := strings.Index(sql, "-- +goose Up")
	down := strings.Index(sql, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf("missing -- +goose Up")
	case down < 0:
		return fmt.Errorf("missing -- +goose Down")
	case down < up:
		return fmt.Errorf("-- +goose Up must precede -- +goose Down")
	}
	begins := strings.Count(sql, "-- +goose StatementBegin")
	ends := strings.Count(sql, "-- +goose StatementEnd")
	if begins != ends {
		return fmt.Errorf("unbalanced StatementBegin/StatementEnd (%d/%d)", begins, ends)
	}
	return nil
}
