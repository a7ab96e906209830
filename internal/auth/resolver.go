package auth

import (
	"context"

	"backend/internal/repository"

	"github.com/google/uuid"
)

// EffectivePermissions flattens claims.roles[*].permissions[*].name into a
// deduplicated set. Pure function, no I/O.
func EffectivePermissions(claims *Claims) map[string]struct{} {
	set := make(map[string]struct{})
	for _, role := range claims.Roles {
		for _, perm := range role.Permissions {
			set[perm.Name] = struct{}{}
		}
	}
	return set
}

// HasPermission reports whether the claims hold the required permission.
// Pure set membership over the claims snapshot.
func HasPermission(claims *Claims, required string) bool {
	_, ok := EffectivePermissions(claims)[required]
	return ok
}

// Resolver answers live authorization queries by bypassing the token
// snapshot and re-reading the store.
type Resolver struct {
	users repository.UserRepository
}

func NewResolver(users repository.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// ResolveFresh re-fetches the user with roles and permissions and rebuilds
// claims from live state. Returns apperr.ErrNotFound when the user is gone.
func (r *Resolver) ResolveFresh(ctx context.Context, userID uuid.UUID) (*Claims, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ClaimsFromUser(user), nil
}
