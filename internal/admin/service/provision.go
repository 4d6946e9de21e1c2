package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/statlerhq/admincore/internal/admin/domain"
	"github.com/statlerhq/admincore/internal/admin/store"
	"github.com/statlerhq/admincore/pkg/cryptox"
	"github.com/statlerhq/admincore/pkg/slogx"
)

var (
	ErrMissingEmail    = errors.New("provision: target email is required")
	ErrMissingUsername = errors.New("provision: target username is required")
	ErrMissingPassword = errors.New("provision: initial password is required")
)

// ProvisionService idempotently ensures exactly one administrative account
// exists for a configured email, with a correctly hashed password. The store
// handle is injected; the service never opens or closes it.
type ProvisionService struct {
	Store store.Store
}

// Provision runs the provisioning workflow:
//
//  1. Bring the admins schema up to date (idempotent).
//  2. Count accounts matching the target email.
//  3. Insert a super_admin account when none exists, rotate the password when
//     one exists and ForceUpdate is set, otherwise leave the store untouched.
//
// Store-layer failures propagate as *store.ConnectivityError or
// *store.PersistenceError so the caller can tell the causes apart.
func (s *ProvisionService) Provision(
	ctx context.Context,
	req domain.ProvisionRequest,
) (domain.ProvisionOutcome, error) {
	l := slogx.FromContext(ctx)

	if err := validate(req); err != nil {
		return "", err
	}

	// 1. Schema readiness
	exists, err := s.Store.AdminTableExists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		l.Info("admins table absent, creating schema")
	}
	if err := s.Store.ApplyMigrations(); err != nil {
		return "", err
	}

	// 2. Existence check
	count, err := s.Store.Admins().CountByEmail(ctx, req.Email)
	if err != nil {
		return "", err
	}

	switch {
	case count == 0:
		return s.create(ctx, req)
	case req.ForceUpdate:
		return s.rotate(ctx, req)
	default:
		l.Info("admin account already exists, skipping",
			slog.String("email", req.Email),
			slog.String("hint", "pass the force flag to rotate the password"),
		)
		return domain.OutcomeExists, nil
	}
}

func (s *ProvisionService) create(
	ctx context.Context,
	req domain.ProvisionRequest,
) (domain.ProvisionOutcome, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.Store.Admins().Create(ctx, domain.Account{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         domain.RoleSuperAdmin,
		Active:       true,
	})
	if err != nil {
		return "", err
	}

	l.Info("created admin account",
		slog.Int64("id", id),
		slog.String("email", req.Email),
		slog.String("username", req.Username),
		slog.String("role", string(domain.RoleSuperAdmin)),
	)
	return domain.OutcomeCreated, nil
}

func (s *ProvisionService) rotate(
	ctx context.Context,
	req domain.ProvisionRequest,
) (domain.ProvisionOutcome, error) {
	l := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(req.Password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	n, err := s.Store.Admins().UpdatePasswordByEmail(ctx, req.Email, hash)
	if err != nil {
		return "", err
	}

	l.Info("rotated admin password",
		slog.String("email", req.Email),
		slog.Int64("rows", n),
	)
	return domain.OutcomeRotated, nil
}

func validate(req domain.ProvisionRequest) error {
	if req.Email == "" {
		return ErrMissingEmail
	}
	if req.Username == "" {
		return ErrMissingUsername
	}
	if req.Password == "" {
		return ErrMissingPassword
	}
	return nil
}
