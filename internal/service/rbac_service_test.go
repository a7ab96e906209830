package service

import (
	"context"
	"testing"

	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserServiceCRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.userSvc.Create(ctx, CreateUserRequest{
		Email:    "u@example.com",
		Name:     "U",
		Password: "secret-pw",
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.Empty(t, user.Roles)

	// Duplicate email conflicts.
	_, err = e.userSvc.Create(ctx, CreateUserRequest{Email: "u@example.com", Name: "V", Password: "secret-pw"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	updated, err := e.userSvc.Update(ctx, user.ID.String(), UpdateUserRequest{Name: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "u@example.com", updated.Email)

	require.NoError(t, e.userSvc.Delete(ctx, user.ID.String()))
	_, err = e.userSvc.GetByID(ctx, user.ID.String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUserServiceUpdateReplacesRoleSet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	roleA, err := e.roleSvc.Create(ctx, CreateRoleRequest{Name: "A"})
	require.NoError(t, err)
	roleB, err := e.roleSvc.Create(ctx, CreateRoleRequest{Name: "B"})
	require.NoError(t, err)

	user, err := e.userSvc.Create(ctx, CreateUserRequest{
		Email:    "u@example.com",
		Name:     "U",
		Password: "secret-pw",
		RoleIDs:  []string{roleA.ID.String()},
	})
	require.NoError(t, err)
	require.Len(t, user.Roles, 1)

	newRoles := []string{roleB.ID.String()}
	updated, err := e.userSvc.Update(ctx, user.ID.String(), UpdateUserRequest{RoleIDs: &newRoles})
	require.NoError(t, err)
	require.Len(t, updated.Roles, 1)
	assert.Equal(t, "B", updated.Roles[0].Name)
}

func TestUserServicePasswordChange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.userSvc.Create(ctx, CreateUserRequest{Email: "u@example.com", Name: "U", Password: "old-pw-123"})
	require.NoError(t, err)

	_, err = e.userSvc.Update(ctx, user.ID.String(), UpdateUserRequest{Password: "new-pw-123"})
	require.NoError(t, err)

	_, err = e.authSvc.Login(ctx, LoginRequest{Email: "u@example.com", Password: "old-pw-123"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = e.authSvc.Login(ctx, LoginRequest{Email: "u@example.com", Password: "new-pw-123"})
	assert.NoError(t, err)
}

func TestRoleServiceUpdateReplacesPermissionSet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	p1, err := e.permSvc.Create(ctx, CreatePermissionRequest{Name: "manage_users"})
	require.NoError(t, err)
	p2, err := e.permSvc.Create(ctx, CreatePermissionRequest{Name: "manage_roles"})
	require.NoError(t, err)

	role, err := e.roleSvc.Create(ctx, CreateRoleRequest{Name: "Ops", PermissionIDs: []string{p1.ID.String()}})
	require.NoError(t, err)
	require.Len(t, role.Permissions, 1)

	updated, err := e.roleSvc.Update(ctx, role.ID.String(), UpdateRoleRequest{
		Name:          "Operations",
		PermissionIDs: []string{p2.ID.String()},
	})
	require.NoError(t, err)
	assert.Equal(t, "Operations", updated.Name)
	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, "manage_roles", updated.Permissions[0].Name)
}

func TestRoleServiceConflictAndNotFound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.roleSvc.Create(ctx, CreateRoleRequest{Name: "Admin"})
	require.NoError(t, err)
	_, err = e.roleSvc.Create(ctx, CreateRoleRequest{Name: "Admin"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = e.roleSvc.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Dangling permission id rejects the whole create.
	_, err = e.roleSvc.Create(ctx, CreateRoleRequest{Name: "Broken", PermissionIDs: []string{uuid.NewString()}})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = e.roles.GetByName(ctx, "Broken")
	assert.ErrorIs(t, err, apperr.ErrNotFound, "failed create must not leave a partial role behind")
}

func TestPermissionServiceCRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	perm, err := e.permSvc.Create(ctx, CreatePermissionRequest{Name: "manage_users"})
	require.NoError(t, err)

	_, err = e.permSvc.Create(ctx, CreatePermissionRequest{Name: "manage_users"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	renamed, err := e.permSvc.Update(ctx, perm.ID.String(), UpdatePermissionRequest{Name: "manage_accounts"})
	require.NoError(t, err)
	assert.Equal(t, "manage_accounts", renamed.Name)

	require.NoError(t, e.permSvc.Delete(ctx, perm.ID.String()))
	_, err = e.permSvc.GetByID(ctx, perm.ID.String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDashboardStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.permSvc.Create(ctx, CreatePermissionRequest{Name: "view_dashboard"})
	require.NoError(t, err)
	_, err = e.roleSvc.Create(ctx, CreateRoleRequest{Name: "Viewer"})
	require.NoError(t, err)
	_, err = e.userSvc.Create(ctx, CreateUserRequest{Email: "u@example.com", Name: "U", Password: "secret-pw"})
	require.NoError(t, err)

	stats, err := e.dashSvc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Users)
	assert.EqualValues(t, 1, stats.Roles)
	assert.EqualValues(t, 1, stats.Permissions)
}

func TestSeederIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.seeder.Run(ctx, "root@example.com", "bootstrap-pw"))
	require.NoError(t, e.seeder.Run(ctx, "root@example.com", "bootstrap-pw"))

	perms, err := e.permSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, perms, 4)

	role, err := e.roles.GetByName(ctx, AdminRoleName)
	require.NoError(t, err)
	assert.Len(t, role.Permissions, 4)

	// Bootstrap admin can log in and holds every baseline permission.
	result, err := e.authSvc.Login(ctx, LoginRequest{Email: "root@example.com", Password: "bootstrap-pw"})
	require.NoError(t, err)
	for _, p := range []string{PermManageUsers, PermManageRoles, PermManagePermissions, PermViewDashboard} {
		assert.Contains(t, result.User.Permissions, p)
	}
}
