package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/norahairline/norahairline/internal/config"
	_ "modernc.org/sqlite"
)

// ErrStorageUnavailable is returned when the store cannot be opened or written.
var ErrStorageUnavailable = errors.New("storage unavailable")

const sqliteBusyTimeout = 5 * time.Second

type DB struct {
	*sql.DB
	driver   string
	location string
}

// Open connects to the store described by cfg, creating the SQLite file if it is missing.
// Callers must defer Close on success.
func Open(ctx context.Context, cfg *config.DBConfig) (*DB, error) {
	driverName, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	slog.Debug("opening database", "driver", cfg.Driver, "location", cfg.Location())

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStorageUnavailable, err)
	}

	// Configure connection pool
	maxOpen := cfg.MaxOpenConns
	if cfg.Driver == config.DriverSQLite || maxOpen <= 0 {
		maxOpen = 1
	}
	db.SetMaxOpenConns(maxOpen)

	// Test connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", ErrStorageUnavailable, err)
	}

	return &DB{DB: db, driver: cfg.Driver, location: cfg.Location()}, nil
}

func dataSource(cfg *config.DBConfig) (driverName, dsn string, err error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		if err := touchFile(cfg.Path); err != nil {
			return "", "", err
		}
		// _time_format=sqlite writes time.Time as "YYYY-MM-DD HH:MM:SS.fff+00:00" so datetime() can read it.
		pragmas := fmt.Sprintf("_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_time_format=sqlite", sqliteBusyTimeout.Milliseconds())
		sep := "?"
		if strings.Contains(cfg.Path, "?") {
			sep = "&"
		}
		return "sqlite", cfg.Path + sep + pragmas, nil

	case config.DriverMySQL:
		mc, err := mysql.ParseDSN(cfg.DSN)
		if err != nil {
			return "", "", fmt.Errorf("%w: invalid DATABASE_DSN: %v", config.ErrConfiguration, err)
		}
		mc.ParseTime = true
		mc.Loc = time.UTC
		return "mysql", mc.FormatDSN(), nil
	}

	return "", "", fmt.Errorf("%w: unsupported driver %q", config.ErrConfiguration, cfg.Driver)
}

// touchFile creates the database file up front so that a missing or
// read-only directory is reported before any SQL runs.
func touchFile(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty database path", config.ErrConfiguration)
	}
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return f.Close()
}

// Driver returns the configured dialect name.
func (db *DB) Driver() string {
	return db.driver
}

// Location returns the file path or redacted server address of the store.
func (db *DB) Location() string {
	return db.location
}

// HealthCheck performs a simple health check on the database
func (db *DB) HealthCheck(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back on error or panic.
func (db *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", ErrStorageUnavailable, err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Warn("rollback failed", "error", rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("%w: failed to commit transaction: %v", ErrStorageUnavailable, cErr)
		}
	}()

	return fn(tx)
}
