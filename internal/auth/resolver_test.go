package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func overlappingClaims() *Claims {
	return &Claims{
		UserID: "u1",
		Roles: []RoleClaim{
			{
				ID:   "r1",
				Name: "Editor",
				Permissions: []PermissionClaim{
					{ID: "p1", Name: "manage_users"},
					{ID: "p2", Name: "view_dashboard"},
				},
			},
			{
				ID:   "r2",
				Name: "Viewer",
				Permissions: []PermissionClaim{
					{ID: "p2", Name: "view_dashboard"}, // shared with Editor
				},
			},
		},
	}
}

func TestEffectivePermissionsDedupes(t *testing.T) {
	set := EffectivePermissions(overlappingClaims())
	assert.Len(t, set, 2)
	assert.Contains(t, set, "manage_users")
	assert.Contains(t, set, "view_dashboard")
}

func TestEffectivePermissionsEmpty(t *testing.T) {
	assert.Empty(t, EffectivePermissions(&Claims{UserID: "u1"}))
}

func TestHasPermissionIsPure(t *testing.T) {
	claims := overlappingClaims()

	// Same claims + same permission always yields the same answer,
	// independent of call order.
	for i := 0; i < 3; i++ {
		assert.True(t, HasPermission(claims, "manage_users"))
		assert.False(t, HasPermission(claims, "manage_permissions"))
		assert.True(t, HasPermission(claims, "view_dashboard"))
	}
}
