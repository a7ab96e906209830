package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"

	"go.uber.org/zap"
)

type CreatePermissionRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdatePermissionRequest struct {
	Name string `json:"name" binding:"required"`
}

type PermissionService interface {
	List(ctx context.Context) ([]PermissionResponse, error)
	GetByID(ctx context.Context, id string) (*PermissionResponse, error)
	Create(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error)
	Update(ctx context.Context, id string, req UpdatePermissionRequest) (*PermissionResponse, error)
	Delete(ctx context.Context, id string) error
}

type permissionService struct {
	perms    repository.PermissionRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewPermissionService(perms repository.PermissionRepository, notifier Notifier, logger *zap.Logger) PermissionService {
	return &permissionService{perms: perms, notifier: notifier, logger: logger}
}

func (s *permissionService) List(ctx context.Context) ([]PermissionResponse, error) {
	perms, err := s.perms.List(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		res = append(res, PermissionResponse{ID: p.ID, Name: p.Name})
	}
	return res, nil
}

func (s *permissionService) GetByID(ctx context.Context, id string) (*PermissionResponse, error) {
	permID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	perm, err := s.perms.GetByID(ctx, permID)
	if err != nil {
		return nil, err
	}
	return &PermissionResponse{ID: perm.ID, Name: perm.Name}, nil
}

func (s *permissionService) Create(ctx context.Context, req CreatePermissionRequest) (*PermissionResponse, error) {
	perm := &model.Permission{Name: req.Name}
	if err := s.perms.Create(ctx, perm); err != nil {
		return nil, err
	}
	s.logger.Info("permission created", zap.String("name", perm.Name))
	notify(s.notifier, "permission", "created", perm.ID.String())
	return &PermissionResponse{ID: perm.ID, Name: perm.Name}, nil
}

func (s *permissionService) Update(ctx context.Context, id string, req UpdatePermissionRequest) (*PermissionResponse, error) {
	permID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	perm, err := s.perms.GetByID(ctx, permID)
	if err != nil {
		return nil, err
	}
	perm.Name = req.Name
	if err := s.perms.Update(ctx, perm); err != nil {
		return nil, err
	}
	notify(s.notifier, "permission", "updated", id)
	return &PermissionResponse{ID: perm.ID, Name: perm.Name}, nil
}

func (s *permissionService) Delete(ctx context.Context, id string) error {
	permID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.perms.Delete(ctx, permID); err != nil {
		return err
	}
	s.logger.Info("permission deleted", zap.String("permission_id", id))
	notify(s.notifier, "permission", "deleted", id)
	return nil
}
