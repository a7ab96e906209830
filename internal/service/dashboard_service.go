package service

import (
	"context"

	"backend/internal/repository"
)

// DashboardStats holds the entity counts shown on the admin landing page.
type DashboardStats struct {
	Users       int64 `json:"users"`
	Roles       int64 `json:"roles"`
	Permissions int64 `json:"permissions"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}

type dashboardService struct {
	users repository.UserRepository
	roles repository.RoleRepository
	perms repository.PermissionRepository
}

func NewDashboardService(users repository.UserRepository, roles repository.RoleRepository, perms repository.PermissionRepository) DashboardService {
	return &dashboardService{users: users, roles: roles, perms: perms}
}

func (s *dashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.Count(ctx)
	if err != nil {
		return nil, err
	}
	perms, err := s.perms.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{Users: users, Roles: roles, Permissions: perms}, nil
}
