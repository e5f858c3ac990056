package migrate

import (
	"embed"
	"sync"
)

//go:embed migrations/*.sql sqlite/*.sql
var embedded embed.FS

var gooseMu sync.Mutex

// EmbeddedDir returns the directory holding the migrations for driver, both
// inside the binary and under pkg/migrate.
func EmbeddedDir(driver string) string {
	if Dialect(driver) == "sqlite3" {
		return "sqlite"
	}
	return "migrations"
}
