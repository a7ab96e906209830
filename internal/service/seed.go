package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Baseline permissions gating the admin surface.
const (
	PermManageUsers       = "manage_users"
	PermManageRoles       = "manage_roles"
	PermManagePermissions = "manage_permissions"
	PermViewDashboard     = "view_dashboard"
)

// AdminRoleName is the built-in role holding every baseline permission.
const AdminRoleName = "Admin"

// Seeder bootstraps the baseline permissions, the Admin role, and — when
// configured — an initial admin user. Idempotent: re-running against a
// populated store changes nothing.
type Seeder struct {
	users  repository.UserRepository
	roles  repository.RoleRepository
	perms  repository.PermissionRepository
	tx     repository.TransactionManager
	logger *zap.Logger
}

func NewSeeder(users repository.UserRepository, roles repository.RoleRepository, perms repository.PermissionRepository, tx repository.TransactionManager, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, roles: roles, perms: perms, tx: tx, logger: logger}
}

// Run seeds the store. adminEmail/adminPassword may be empty, in which case
// no bootstrap user is created.
func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		permIDs := make([]uuid.UUID, 0, 4)
		for _, name := range []string{PermManageUsers, PermManageRoles, PermManagePermissions, PermViewDashboard} {
			perm, err := s.perms.GetByName(txCtx, name)
			if errors.Is(err, apperr.ErrNotFound) {
				perm = &model.Permission{Name: name}
				if err := s.perms.Create(txCtx, perm); err != nil {
					return fmt.Errorf("seed permission %q: %w", name, err)
				}
				s.logger.Info("seeded permission", zap.String("name", name))
			} else if err != nil {
				return err
			}
			permIDs = append(permIDs, perm.ID)
		}

		role, err := s.roles.GetByName(txCtx, AdminRoleName)
		if errors.Is(err, apperr.ErrNotFound) {
			role = &model.Role{Name: AdminRoleName}
			if err := s.roles.Create(txCtx, role); err != nil {
				return fmt.Errorf("seed role %q: %w", AdminRoleName, err)
			}
			if err := s.roles.ReplacePermissions(txCtx, role.ID, permIDs); err != nil {
				return err
			}
			s.logger.Info("seeded role", zap.String("name", AdminRoleName))
		} else if err != nil {
			return err
		}

		if adminEmail == "" || adminPassword == "" {
			return nil
		}

		_, err = s.users.GetByEmail(txCtx, adminEmail)
		if err == nil {
			return nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return err
		}

		hashed, err := auth.HashPassword(adminPassword)
		if err != nil {
			return err
		}
		admin := &model.User{
			Email:    adminEmail,
			Name:     "Administrator",
			Password: hashed,
			IsActive: true,
		}
		if err := s.users.Create(txCtx, admin); err != nil {
			return fmt.Errorf("seed admin user: %w", err)
		}
		if err := s.users.ReplaceRoles(txCtx, admin.ID, []uuid.UUID{role.ID}); err != nil {
			return err
		}
		s.logger.Info("seeded admin user", zap.String("email", adminEmail))
		return nil
	})
}
