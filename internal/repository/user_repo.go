package repository

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository defines the interface for data access of User entities.
// Reads always preload Roles.Permissions so callers get the full
// role→permission graph in one round-trip.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new instance of UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return mapError(GetDB(ctx, r.db).Create(user).Error)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := GetDB(ctx, r.db).Preload("Roles.Permissions").First(&user, "id = ?", id).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := GetDB(ctx, r.db).Preload("Roles.Permissions").First(&user, "email = ?", email).Error
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, offset, limit int) ([]model.User, int64, error) {
	var users []model.User
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}

	err := db.Preload("Roles.Permissions").
		Order("created_at asc").
		Offset(offset).Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, mapError(err)
	}

	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	// Save without touching the Roles association; role membership changes
	// only through ReplaceRoles.
	return mapError(GetDB(ctx, r.db).Omit("Roles").Save(user).Error)
}

// ReplaceRoles swaps the user's full role set: the old user_roles rows are
// deleted and the new set inserted as one logical operation. Dangling role
// ids are rejected before anything is touched.
func (r *userRepository) ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	db := GetDB(ctx, r.db)

	var user model.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return mapError(err)
	}

	var roles []model.Role
	if len(roleIDs) > 0 {
		if err := db.Where("id IN ?", roleIDs).Find(&roles).Error; err != nil {
			return mapError(err)
		}
		if len(roles) != len(roleIDs) {
			return fmt.Errorf("%w: one or more roles do not exist", apperr.ErrNotFound)
		}
	}

	if err := db.Model(&user).Association("Roles").Replace(roles); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)

	var user model.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		return mapError(err)
	}

	// Drop user_roles links first; role and permission rows are untouched.
	if err := db.Model(&user).Association("Roles").Clear(); err != nil {
		return mapError(err)
	}
	return mapError(db.Delete(&user).Error)
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.User{}).Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}
