package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	PermissionIDs []string `json:"permission_ids"`
}

// UpdateRoleRequest replaces the role wholesale: name and the complete
// permission set.
type UpdateRoleRequest struct {
	Name          string   `json:"name" binding:"required"`
	PermissionIDs []string `json:"permission_ids"`
}

type RoleResponse struct {
	ID          uuid.UUID            `json:"id"`
	Name        string               `json:"name"`
	Permissions []PermissionResponse `json:"permissions"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

type PermissionResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// --- Interface ---

type RoleService interface {
	List(ctx context.Context) ([]RoleResponse, error)
	GetByID(ctx context.Context, id string) (*RoleResponse, error)
	Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	Update(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
	Delete(ctx context.Context, id string) error
}

type roleService struct {
	roles    repository.RoleRepository
	tx       repository.TransactionManager
	notifier Notifier
	logger   *zap.Logger
}

func NewRoleService(roles repository.RoleRepository, tx repository.TransactionManager, notifier Notifier, logger *zap.Logger) RoleService {
	return &roleService{roles: roles, tx: tx, notifier: notifier, logger: logger}
}

// --- Implementation ---

func (s *roleService) List(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]RoleResponse, 0, len(roles))
	for _, r := range roles {
		res = append(res, toRoleResponse(&r))
	}
	return res, nil
}

func (s *roleService) GetByID(ctx context.Context, id string) (*RoleResponse, error) {
	roleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) Create(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	permIDs, err := parseIDs(req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	role := &model.Role{Name: req.Name}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.roles.Create(txCtx, role); err != nil {
			return err
		}
		return s.roles.ReplacePermissions(txCtx, role.ID, permIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("role created", zap.String("role_id", role.ID.String()), zap.String("name", role.Name))
	notify(s.notifier, "role", "created", role.ID.String())
	return s.GetByID(ctx, role.ID.String())
}

// Update renames the role and replaces its entire permission set in one
// transaction, so no reader observes the role with zero permissions.
func (s *roleService) Update(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	roleID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	permIDs, err := parseIDs(req.PermissionIDs)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		role, err := s.roles.GetByID(txCtx, roleID)
		if err != nil {
			return err
		}
		role.Name = req.Name
		if err := s.roles.Update(txCtx, role); err != nil {
			return err
		}
		return s.roles.ReplacePermissions(txCtx, roleID, permIDs)
	})
	if err != nil {
		return nil, err
	}

	notify(s.notifier, "role", "updated", id)
	return s.GetByID(ctx, id)
}

func (s *roleService) Delete(ctx context.Context, id string) error {
	roleID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.roles.Delete(ctx, roleID); err != nil {
		return err
	}
	s.logger.Info("role deleted", zap.String("role_id", id))
	notify(s.notifier, "role", "deleted", id)
	return nil
}

// --- Helpers ---

func toRoleResponse(r *model.Role) RoleResponse {
	perms := make([]PermissionResponse, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		perms = append(perms, PermissionResponse{ID: p.ID, Name: p.Name})
	}
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Permissions: perms,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", apperr.ErrNotFound, id)
	}
	return parsed, nil
}

func parseIDs(ids []string) ([]uuid.UUID, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		p, err := parseID(id)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, p)
	}
	return parsed, nil
}
