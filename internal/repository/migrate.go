package repository

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Migrate applies all pending up migrations from the given directory.
// A database already at the latest version is not an error.
func Migrate(dsn, migrationsPath string) error {
	sourceURL := "file://" + migrationsPath
	databaseURL := "mysql://" + dsn

	migrator, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	defer func() {
		_, _ = migrator.Close()
	}()

	if err := migrator.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// RedactDSN strips credentials from a DSN for logging.
func RedactDSN(dsn string) string {
	if at := strings.LastIndex(dsn, "@"); at != -1 {
		return "***@" + dsn[at+1:]
	}
	if u, err := url.Parse(dsn); err == nil && u.User != nil {
		u.User = nil
		return u.String()
	}
	return dsn
}
