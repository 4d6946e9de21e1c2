package sqlite

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/statlerhq/admincore/internal/admin/domain"
	"github.com/statlerhq/admincore/internal/admin/store"
)

type adminsRepo struct {
	db *sqlx.DB
}

type adminRow struct {
	ID           int64      `db:"id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Role         string     `db:"role"`
	Active       bool       `db:"is_active"`
	LastLogin    *time.Time `db:"last_login"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (r adminRow) toDomain() domain.Account {
	return domain.Account{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Role:         domain.Role(r.Role),
		Active:       r.Active,
		LastLogin:    r.LastLogin,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

const adminColumns = `id, username, email, password, first_name, last_name, role, is_active, last_login, created_at, updated_at`

func (r *adminsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	var row adminRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+adminColumns+` FROM admins WHERE email = ?`, email)
	if err != nil {
		if err = mapNotFound(err); errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, err
		}
		return domain.Account{}, &store.PersistenceError{Op: "select admin by email", Err: err}
	}
	return row.toDomain(), nil
}

func (r *adminsRepo) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	var row adminRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+adminColumns+` FROM admins WHERE username = ?`, username)
	if err != nil {
		if err = mapNotFound(err); errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, err
		}
		return domain.Account{}, &store.PersistenceError{Op: "select admin by username", Err: err}
	}
	return row.toDomain(), nil
}

func (r *adminsRepo) CountByEmail(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM admins WHERE email = ?`, email)
	if err != nil {
		return 0, &store.PersistenceError{Op: "count admins by email", Err: err}
	}
	return count, nil
}

func (r *adminsRepo) Create(ctx context.Context, a domain.Account) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (username, email, password, first_name, last_name, role, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Username, a.Email, a.PasswordHash, a.FirstName, a.LastName, string(a.Role), a.Active)
	if err != nil {
		if err = mapConstraint(err); errors.Is(err, store.ErrAlreadyExists) {
			return 0, err
		}
		return 0, &store.PersistenceError{Op: "insert admin", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, &store.PersistenceError{Op: "insert admin", Err: err}
	}
	return id, nil
}

func (r *adminsRepo) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) (int64, error) {
	// SQLite has no ON UPDATE clause; refresh updated_at explicitly.
	res, err := r.db.ExecContext(ctx,
		`UPDATE admins SET password = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?`,
		passwordHash, email)
	if err != nil {
		return 0, &store.PersistenceError{Op: "update admin password", Err: err}
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, &store.PersistenceError{Op: "update admin password", Err: err}
	}
	return n, nil
}

func (r *adminsRepo) RecordLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE admins SET last_login = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	if err != nil {
		return &store.PersistenceError{Op: "record admin login", Err: err}
	}
	return nil
}
