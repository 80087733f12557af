// Package database is the relational metadata store: Dir, File,
// FileVersion and FileVersionTag rows in a single-file embedded SQLite
// database, conventionally <data-root>/qcdn.db. The writer process
// opens it read-write and migrates the schema at startup; the HTTP
// read server opens it read-only.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/qcdn/qcdn/internal/logger"
	"github.com/qcdn/qcdn/pkg/errtypes"
)

// DBName is the database file name under the data root.
const DBName = "qcdn.db"

// Mode selects how the database file is opened.
type Mode int

const (
	// ModeReadWrite opens the database for the writer process and
	// runs schema migrations.
	ModeReadWrite Mode = iota
	// ModeReadOnly opens the database for the read-only HTTP server;
	// no migrations, mutations rejected by the engine.
	ModeReadOnly
)

// Database wraps the gorm connection pool.
type Database struct {
	db   *gorm.DB
	mode Mode
}

// Open opens (and in read-write mode migrates) the database at path.
// ":memory:" opens a private in-memory database, used by tests.
func Open(path string, mode Mode) (*Database, error) {
	dsn := dsnFor(path, mode)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrapping connection pool: %w", err)
	}
	if path == ":memory:" {
		// Every pool connection to :memory: would be a distinct
		// database; pin the pool to one.
		sqlDB.SetMaxOpenConns(1)
	}

	d := &Database{db: db, mode: mode}

	if mode == ModeReadWrite {
		if err := d.migrate(); err != nil {
			return nil, err
		}
	}

	logger.Info("database open", "path", path, "read_only", mode == ModeReadOnly)
	return d, nil
}

func dsnFor(path string, mode Mode) string {
	// SQLite pragmas:
	// - journal_mode(WAL) lets the read-only server read while the
	//   writer writes
	// - busy_timeout(5000) waits instead of failing on a locked file
	pragmas := "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	if mode == ModeReadOnly {
		pragmas += "&_pragma=query_only(1)"
	}
	return path + pragmas
}

// migrate brings the schema to the current version. AutoMigrate is
// idempotent; the partial unique index behind it backs invariant I2
// (at most one non-deleted Ready version per (file_id, name)).
func (d *Database) migrate() error {
	if err := d.db.AutoMigrate(&Dir{}, &File{}, &FileVersion{}, &FileVersionTag{}); err != nil {
		return fmt.Errorf("running schema migration: %w", err)
	}

	if err := d.db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_file_version_ready_name
		 ON file_version(file_id, name)
		 WHERE state = 2 AND deleted_at IS NULL`,
	).Error; err != nil {
		return fmt.Errorf("creating ready-name index: %w", err)
	}

	if err := d.db.Exec(
		`CREATE INDEX IF NOT EXISTS idx_file_version_tag_name
		 ON file_version_tag(name)`,
	).Error; err != nil {
		return fmt.Errorf("creating tag-name index: %w", err)
	}

	return nil
}

// Ping verifies a connection can be acquired. The health endpoint
// calls this.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the underlying pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isUniqueConstraintError reports whether err is a SQLite unique
// constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// asNotFound converts gorm's record-not-found into the public
// taxonomy, leaving other errors alone.
func asNotFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errtypes.NotFound(what)
	}
	return err
}
