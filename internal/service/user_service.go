package service

import (
	"context"
	"time"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// --- DTOs ---

type CreateUserRequest struct {
	Email    string   `json:"email" binding:"required,email"`
	Name     string   `json:"name" binding:"required"`
	Password string   `json:"password" binding:"required,min=6"`
	RoleIDs  []string `json:"role_ids"`
}

type UpdateUserRequest struct {
	Email    string    `json:"email" binding:"omitempty,email"`
	Name     string    `json:"name"`
	Password string    `json:"password" binding:"omitempty,min=6"`
	IsActive *bool     `json:"is_active"`
	RoleIDs  *[]string `json:"role_ids"`
}

type UserResponse struct {
	ID        uuid.UUID      `json:"id"`
	Email     string         `json:"email"`
	Name      string         `json:"name"`
	IsActive  bool           `json:"is_active"`
	Roles     []RoleResponse `json:"roles"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// --- Interface ---

type UserService interface {
	Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetByID(ctx context.Context, id string) (*UserResponse, error)
	List(ctx context.Context, offset, limit int) ([]UserResponse, int64, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	users    repository.UserRepository
	tx       repository.TransactionManager
	notifier Notifier
	logger   *zap.Logger
}

func NewUserService(users repository.UserRepository, tx repository.TransactionManager, notifier Notifier, logger *zap.Logger) UserService {
	return &userService{users: users, tx: tx, notifier: notifier, logger: logger}
}

// --- Implementation ---

func (s *userService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	roleIDs, err := parseIDs(req.RoleIDs)
	if err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:    req.Email,
		Name:     req.Name,
		Password: hashed,
		IsActive: true,
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return err
		}
		return s.users.ReplaceRoles(txCtx, user.ID, roleIDs)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("user_id", user.ID.String()))
	notify(s.notifier, "user", "created", user.ID.String())
	return s.GetByID(ctx, user.ID.String())
}

func (s *userService) GetByID(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, offset, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	res := make([]UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(&u))
	}
	return res, total, nil
}

// Update applies partial field changes; a provided role_ids list replaces
// the user's full role set atomically with the other changes.
func (s *userService) Update(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		user, err := s.users.GetByID(txCtx, userID)
		if err != nil {
			return err
		}

		if req.Email != "" {
			user.Email = req.Email
		}
		if req.Name != "" {
			user.Name = req.Name
		}
		if req.IsActive != nil {
			user.IsActive = *req.IsActive
		}
		if req.Password != "" {
			hashed, err := auth.HashPassword(req.Password)
			if err != nil {
				return err
			}
			user.Password = hashed
		}

		if err := s.users.Update(txCtx, user); err != nil {
			return err
		}

		if req.RoleIDs != nil {
			roleIDs, err := parseIDs(*req.RoleIDs)
			if err != nil {
				return err
			}
			return s.users.ReplaceRoles(txCtx, userID, roleIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	notify(s.notifier, "user", "updated", id)
	return s.GetByID(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	userID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	notify(s.notifier, "user", "deleted", id)
	return nil
}

func toUserResponse(u *model.User) UserResponse {
	roles := make([]RoleResponse, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, toRoleResponse(&r))
	}
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsActive:  u.IsActive,
		Roles:     roles,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
