package store

import (
	"context"
	"errors"

	"github.com/statlerhq/admincore/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (mysql, sqlite)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Admins() Admins

	// AdminTableExists reports whether the admins table is present, using
	// the driver's catalog query (SHOW TABLES on MySQL, sqlite_master on
	// SQLite). Used for diagnostics before migrations run.
	AdminTableExists(ctx context.Context) (bool, error)

	// ApplyMigrations brings the schema up to date. Idempotent; safe to run
	// on every invocation.
	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

// Admins is the repository for administrative accounts.
type Admins interface {
	// GetByEmail returns the account with the given email, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetByUsername returns the account with the given username, or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (domain.Account, error)

	// CountByEmail returns how many accounts match the given email. With the
	// uniqueness constraint in place this is 0 or 1, but the count form keeps
	// the existence check cheap and explicit.
	CountByEmail(ctx context.Context, email string) (int64, error)

	// Create inserts a new account and returns its generated identifier.
	// Duplicate username or email surfaces as ErrAlreadyExists.
	Create(ctx context.Context, a domain.Account) (int64, error)

	// UpdatePasswordByEmail overwrites the password hash of every account
	// matching the email and returns the number of rows touched. The
	// updated_at column refreshes implicitly.
	UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int64, error)

	// RecordLogin stamps last_login for the account. Invoked by the
	// authentication side on successful sign-in.
	RecordLogin(ctx context.Context, id int64) error
}
