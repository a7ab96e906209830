package service

import (
	"context"
	"testing"
	"time"

	"backend/internal/auth"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAdminScenario builds the end-to-end fixture: permission
// "manage_users" → role "Admin" → user holding it.
func setupAdminScenario(t *testing.T, e *env) *UserResponse {
	t.Helper()
	ctx := context.Background()

	perm, err := e.permSvc.Create(ctx, CreatePermissionRequest{Name: "manage_users"})
	require.NoError(t, err)

	role, err := e.roleSvc.Create(ctx, CreateRoleRequest{
		Name:          "Admin",
		PermissionIDs: []string{perm.ID.String()},
	})
	require.NoError(t, err)

	user, err := e.userSvc.Create(ctx, CreateUserRequest{
		Email:    "admin@example.com",
		Name:     "Admin User",
		Password: "correct-pw",
		RoleIDs:  []string{role.ID.String()},
	})
	require.NoError(t, err)
	return user
}

func TestLoginIssuesVerifiableCredential(t *testing.T) {
	e := newEnv(t)
	created := setupAdminScenario(t, e)
	ctx := context.Background()

	result, err := e.authSvc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "correct-pw"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, created.ID, result.User.ID)

	// Immediately verifying the credential decodes to the same userId.
	claims, err := e.codec.Verify(result.Token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, created.ID.String(), claims.UserID)

	// The claims snapshot answers permission queries without I/O.
	assert.True(t, auth.HasPermission(claims, "manage_users"))
	assert.False(t, auth.HasPermission(claims, "manage_permissions"))
}

func TestLoginAntiEnumeration(t *testing.T) {
	e := newEnv(t)
	setupAdminScenario(t, e)
	ctx := context.Background()

	wrongPw, err := e.authSvc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "wrong-pw"})
	assert.Nil(t, wrongPw)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	unknown, err2 := e.authSvc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever"})
	assert.Nil(t, unknown)
	assert.ErrorIs(t, err2, apperr.ErrInvalidCredentials)

	// Identical error shape whether the email exists or not.
	assert.Equal(t, err.Error(), err2.Error())
}

func TestLoginInactiveAccount(t *testing.T) {
	e := newEnv(t)
	user := setupAdminScenario(t, e)
	ctx := context.Background()

	inactive := false
	_, err := e.userSvc.Update(ctx, user.ID.String(), UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)

	// Correct secret, deactivated account.
	_, err = e.authSvc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "correct-pw"})
	assert.ErrorIs(t, err, apperr.ErrAccountInactive)

	// Wrong secret on the same account still reports invalid credentials,
	// not the account state.
	_, err = e.authSvc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "wrong-pw"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestMeReturnsLiveState(t *testing.T) {
	e := newEnv(t)
	user := setupAdminScenario(t, e)
	ctx := context.Background()

	principal, err := e.authSvc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", principal.Email)
	assert.Equal(t, []string{"manage_users"}, principal.Permissions)
}

func TestRoleDeletionRemovesPermissionsOnFreshResolve(t *testing.T) {
	e := newEnv(t)
	user := setupAdminScenario(t, e)
	ctx := context.Background()
	resolver := auth.NewResolver(e.users)

	// Snapshot issued before the change still carries the permission — the
	// accepted staleness window.
	result, err := e.authSvc.Login(ctx, LoginRequest{Email: "admin@example.com", Password: "correct-pw"})
	require.NoError(t, err)
	stale, err := e.codec.Verify(result.Token, time.Now())
	require.NoError(t, err)

	require.Len(t, user.Roles, 1)
	require.NoError(t, e.roleSvc.Delete(ctx, user.Roles[0].ID.String()))

	assert.True(t, auth.HasPermission(stale, "manage_users"))

	// A fresh resolve sees the live (now empty) permission set.
	fresh, err := resolver.ResolveFresh(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, auth.HasPermission(fresh, "manage_users"))
	assert.Empty(t, auth.EffectivePermissions(fresh))
}

func TestResolveFreshUnknownUser(t *testing.T) {
	e := newEnv(t)
	resolver := auth.NewResolver(e.users)

	_, err := resolver.ResolveFresh(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
