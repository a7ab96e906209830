package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"backend/internal/auth"
	"backend/internal/metrics"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DTOs for Request validation

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Principal is the sanitized view of an authenticated user: identity plus
// the role graph and the flattened effective permission list. The password
// hash never leaves the service layer.
type Principal struct {
	ID          uuid.UUID      `json:"id"`
	Email       string         `json:"email"`
	Name        string         `json:"name"`
	IsActive    bool           `json:"is_active"`
	Roles       []RoleResponse `json:"roles"`
	Permissions []string       `json:"permissions"`
}

type LoginResult struct {
	Token string    `json:"token"`
	User  Principal `json:"user"`
}

// AuthService handles credential verification and issuance.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Me(ctx context.Context, userID uuid.UUID) (*Principal, error)
}

type authService struct {
	users  repository.UserRepository
	codec  *auth.Codec
	logger *zap.Logger
}

func NewAuthService(users repository.UserRepository, codec *auth.Codec, logger *zap.Logger) AuthService {
	return &authService{users: users, codec: codec, logger: logger}
}

// Login verifies the password and mints a credential embedding a snapshot
// of the user's roles and permissions. Unknown email and wrong password
// yield the same error so accounts cannot be enumerated; the inactive
// check runs only after the password verifies.
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			metrics.ObserveLogin("invalid_credentials")
			return nil, apperr.ErrInvalidCredentials
		}
		s.logger.Error("login: user lookup failed", zap.Error(err))
		return nil, err
	}

	if !auth.PasswordsMatch(req.Password, user.Password) {
		metrics.ObserveLogin("invalid_credentials")
		return nil, apperr.ErrInvalidCredentials
	}

	if !user.IsActive {
		metrics.ObserveLogin("inactive")
		return nil, apperr.ErrAccountInactive
	}

	claims := auth.ClaimsFromUser(user)
	token, err := s.codec.Issue(*claims, time.Now())
	if err != nil {
		s.logger.Error("login: token issuance failed", zap.Error(err))
		return nil, fmt.Errorf("%w: token issuance", apperr.ErrStoreUnavailable)
	}

	metrics.ObserveLogin("success")
	return &LoginResult{Token: token, User: *toPrincipal(user)}, nil
}

// Me returns the principal's live state from the store, bypassing the
// token snapshot — the fresh path callers use right after a role change.
func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*Principal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthenticated
		}
		return nil, err
	}
	return toPrincipal(user), nil
}

func toPrincipal(user *model.User) *Principal {
	claims := auth.ClaimsFromUser(user)
	permSet := auth.EffectivePermissions(claims)
	perms := make([]string, 0, len(permSet))
	for name := range permSet {
		perms = append(perms, name)
	}
	sort.Strings(perms)

	roles := make([]RoleResponse, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, toRoleResponse(&r))
	}

	return &Principal{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		IsActive:    user.IsActive,
		Roles:       roles,
		Permissions: perms,
	}
}
