package service

import (
	"testing"

	"backend/internal/auth"
	"backend/internal/database"
	"backend/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// env bundles a fully wired service stack over an in-memory store.
type env struct {
	db    *gorm.DB
	codec *auth.Codec

	users repository.UserRepository
	roles repository.RoleRepository
	perms repository.PermissionRepository

	authSvc AuthService
	userSvc UserService
	roleSvc RoleService
	permSvc PermissionService
	dashSvc DashboardService
	seeder  *Seeder
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	codec, err := auth.NewCodec("test-secret", auth.DefaultTokenTTL)
	require.NoError(t, err)

	logger := zap.NewNop()
	tx := repository.NewTransactionManager(db)
	users := repository.NewUserRepository(db)
	roles := repository.NewRoleRepository(db)
	perms := repository.NewPermissionRepository(db)

	return &env{
		db:      db,
		codec:   codec,
		users:   users,
		roles:   roles,
		perms:   perms,
		authSvc: NewAuthService(users, codec, logger),
		userSvc: NewUserService(users, tx, nil, logger),
		roleSvc: NewRoleService(roles, tx, nil, logger),
		permSvc: NewPermissionService(perms, nil, logger),
		dashSvc: NewDashboardService(users, roles, perms),
		seeder:  NewSeeder(users, roles, perms, tx, logger),
	}
}
