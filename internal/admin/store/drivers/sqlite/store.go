package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	sqlitelib "modernc.org/sqlite"

	"github.com/statlerhq/admincore/internal/admin/store"
)

type Store struct {
	db *sqlx.DB
}

// Open opens (creating if necessary) the SQLite database at dsn. A dsn of
// ":memory:" yields an ephemeral store, which the tests rely on.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, &store.ConnectivityError{Err: err}
	}

	// In-memory databases vanish when their last connection closes; pin the
	// pool to one connection so every statement sees the same database.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &store.ConnectivityError{Err: err}
	}

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, &store.ConnectivityError{Err: err}
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &store.ConnectivityError{Err: err}
	}
	return nil
}

func (s *Store) Admins() store.Admins { return &adminsRepo{db: s.db} }

// AdminTableExists checks sqlite_master for the admins table.
func (s *Store) AdminTableExists(ctx context.Context) (bool, error) {
	var name string
	err := s.db.GetContext(ctx, &name,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'admins'`)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &store.PersistenceError{Op: "query sqlite_master", Err: err}
	}
	return true, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint converts SQLite unique-constraint violations (2067, and 1555
// for primary keys) into store.ErrAlreadyExists.
func mapConstraint(err error) error {
	var se *sqlitelib.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case 1555, 2067:
			return store.ErrAlreadyExists
		}
	}
	return err
}
