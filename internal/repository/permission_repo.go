package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionRepository interface {
	Create(ctx context.Context, perm *model.Permission) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Permission, error)
	GetByName(ctx context.Context, name string) (*model.Permission, error)
	List(ctx context.Context) ([]model.Permission, error)
	Update(ctx context.Context, perm *model.Permission) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) Create(ctx context.Context, perm *model.Permission) error {
	return mapError(GetDB(ctx, r.db).Create(perm).Error)
}

func (r *permissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).First(&perm, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &perm, nil
}

func (r *permissionRepository) GetByName(ctx context.Context, name string) (*model.Permission, error) {
	var perm model.Permission
	if err := GetDB(ctx, r.db).First(&perm, "name = ?", name).Error; err != nil {
		return nil, mapError(err)
	}
	return &perm, nil
}

func (r *permissionRepository) List(ctx context.Context) ([]model.Permission, error) {
	var perms []model.Permission
	if err := GetDB(ctx, r.db).Order("name asc").Find(&perms).Error; err != nil {
		return nil, mapError(err)
	}
	return perms, nil
}

func (r *permissionRepository) Update(ctx context.Context, perm *model.Permission) error {
	return mapError(GetDB(ctx, r.db).Save(perm).Error)
}

// Delete removes the permission and any role_permissions rows referencing
// it, so no join row is ever left dangling.
func (r *permissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := GetDB(ctx, r.db)

	var perm model.Permission
	if err := db.First(&perm, "id = ?", id).Error; err != nil {
		return mapError(err)
	}

	if err := db.Exec("DELETE FROM role_permissions WHERE permission_id = ?", id).Error; err != nil {
		return mapError(err)
	}
	return mapError(db.Delete(&perm).Error)
}

func (r *permissionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&model.Permission{}).Count(&total).Error; err != nil {
		return 0, mapError(err)
	}
	return total, nil
}
