package repository

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Role, error)
	GetByName(ctx context.Context, name string) (*model.Role, error)
	List(ctx context.Context) ([]model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	ReplacePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role) error {
	return mapError(GetDB(ctx, r.db).Create(role).Error)
}

func (r *roleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").First(&role, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").First(&role, "name = ?", name).Error; err != nil {
		return nil, mapError(err)
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	if err := GetDB(ctx, r.db).Preload("Permissions").Order("created_at asc").Find(&roles).Error; err != nil {
		return nil, mapError(err)
	}
	return roles, nil
}

func (r *roleRepository) Update(ctx context.Context, role *model.Role) error {
	return mapError(GetDB(ctx, r.db).Omit("Permissions").Save(role).Error)
}

// ReplacePermissions deletes all role_permissions rows for the role and
// reinserts the new set as one logical operation.
func (r *roleRepository) ReplacePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	db := GetDB(ctx, r.db)

	var role model.Role
	if err := db.First(&role, "id = ?", roleID).Error; err != nil {
		return mapError(err)
	}

	var perms []model.Permission
	if len(permissionIDs) > 0 {
		if err := db.Where("id IN ?", permissionIDs).Find(&perms).Error; err != nil {
			return mapError(err)
		}
		if len(perms) != len(permissionIDs) {
			return fmt.Errorf("%w: one or more permissions do not exist", apperr.ErrNotFound)
		}
	}

	if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
		return mapError(err)
	}
	return nil
}

// Delete removes the role and cascades both join tables: its
// role_permissions rows and any user_roles rows referencing it.
func (r *roleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)

	var role model.Role
	if err := db.First(&role, "id = ?", id).Error; err != nil {
		return mapError(err)
	}

	if err := db.Model(&role).Association("Permissions").Clear(); err != nil {
		return mapError(err)
	}
	if err := db.Exec("DELETE FROM user_roles WHERE role_id = ?", id).Error; err != nil {
		return mapError(err)
	}
	return mapError(db.Delete(&role).Error)
}

func (r *roleRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Role{}).Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}
