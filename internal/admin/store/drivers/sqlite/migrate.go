package sqlite

import (
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/statlerhq/admincore/internal/admin/store"
	"github.com/statlerhq/admincore/internal/admin/store/drivers/sqlite/migrations"
)

// ApplyMigrations applies any pending database migrations using the embedded
// migration files compiled into the binary. Running it against an up-to-date
// schema is a no-op.
func (s *Store) ApplyMigrations() error {
	driver, err := migratesqlite.WithInstance(s.db.DB, &migratesqlite.Config{})
	if err != nil {
		return &store.PersistenceError{Op: "init migration driver", Err: err}
	}

	src, err := iofs.New(migrations.Migrations, ".")
	if err != nil {
		return &store.PersistenceError{Op: "open embedded migrations", Err: err}
	}

	instance, err := migrate.NewWithInstance("iofs", src, "", driver)
	if err != nil {
		return &store.PersistenceError{Op: "init migrations", Err: err}
	}

	if err := instance.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return &store.PersistenceError{Op: "apply migrations", Err: err}
	}

	return nil
}
