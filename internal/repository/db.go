package repository

import (
	"database/sql"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// NewDB opens the MySQL pool shared by the user and step repositories.
// The DSN must carry parseTime=true so the users timestamp columns scan
// into time.Time. A failed ping is only a warning; callers decide whether
// to run degraded (main disables the account routes when migrations
// cannot reach the database).
func NewDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Every request issues at most a couple of short queries.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(3 * time.Minute)

	if err := db.Ping(); err != nil {
		slog.Warn("database ping failed", "error", err)
	}

	return db, nil
}
