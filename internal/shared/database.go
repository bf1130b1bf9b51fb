package shared

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// cacheDSNOptions tunes SQLite for the offline cache: a busy timeout so
// a running sync and a read can share the file, plus enforced foreign keys.
const cacheDSNOptions = "?_busy_timeout=5000&_foreign_keys=on"

// NewDatabase opens the offline cache at path. ":memory:" works for
// throwaway databases.
func NewDatabase(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + cacheDSNOptions
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach cache database: %w", err)
	}
	return db, nil
}

// ConfigureDatabase applies the pool limits from the config. Zero values
// leave the database/sql defaults in place.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
}
