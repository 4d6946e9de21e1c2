package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/statlerhq/admincore/internal/admin/store"
)

// Config holds the connection parameters for a MySQL-backed store.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// DSN renders the config into a go-sql-driver DSN. parseTime is required so
// DATETIME columns scan into time.Time.
func (c Config) DSN() string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = c.Database
	mc.ParseTime = true
	return mc.FormatDSN()
}

type Store struct {
	db *sqlx.DB
}

// Open connects to MySQL and verifies the connection. Failure to reach the
// server is reported as a *store.ConnectivityError.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := sqlx.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, &store.ConnectivityError{Err: err}
	}

	if err := db.PingContext(ctx); err != nil {
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

// AdminTableExists checks the server catalog for the admins table.
func (s *Store) AdminTableExists(ctx context.Context) (bool, error) {
	var name string
	err := s.db.GetContext(ctx, &name, `SHOW TABLES LIKE 'admins'`)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, &store.PersistenceError{Op: "show tables", Err: err}
	}
	return true, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint converts a MySQL duplicate-key error (1062) into
// store.ErrAlreadyExists.
func mapConstraint(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return store.ErrAlreadyExists
	}
	return err
}
