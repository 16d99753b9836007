// Package sqlite implements the storage contracts on an embedded SQLite
// database. It backs single-node deployments and the service tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/adanyl0v/smart-task/internal/storage"
	"github.com/adanyl0v/smart-task/internal/storage/migrations"
)

const (
	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"

	timeLayout = time.RFC3339Nano
	dateLayout = time.DateOnly
)

type Store struct {
	db    *sql.DB
	users *UserRepository
	tasks *TaskRepository
}

// Open connects to the database file at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path == MemoryPath {
		dsn = "file::memory:?_pragma=foreign_keys(1)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps an
	// in-memory database alive for the lifetime of the pool.
	db.SetMaxOpenConns(1)

	err = db.PingContext(ctx)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	err = migrations.Up(ctx, db, goose.DialectSQLite3)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:    db,
		users: &UserRepository{db: db},
		tasks: &TaskRepository{db: db},
	}, nil
}

func (s *Store) Users() storage.UserRepository { return s.users }
func (s *Store) Tasks() storage.TaskRepository { return s.tasks }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isConstraintViolation(err error) bool {
	var sqliteErr *sqlite.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}

func wrapNoRows(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
