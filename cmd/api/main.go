package main

import (
	"context"
	"log"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/metrics"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           RBAC Admin API
// @version         1.0
// @description     Role-based access control API for the admin dashboard.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("connected to PostgreSQL")

	metrics.Init()

	// Set up WebSocket hub for directory change events
	wsHub := websocket.NewHub(logger)
	go wsHub.Run()

	// Credential codec — the one trust boundary for client-held tokens
	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("codec init failed", zap.Error(err))
	}

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permRepo := repository.NewPermissionRepository(db)

	authService := service.NewAuthService(userRepo, codec, logger)
	userService := service.NewUserService(userRepo, txManager, wsHub, logger)
	roleService := service.NewRoleService(roleRepo, txManager, wsHub, logger)
	permService := service.NewPermissionService(permRepo, wsHub, logger)
	dashboardService := service.NewDashboardService(userRepo, roleRepo, permRepo)

	seeder := service.NewSeeder(userRepo, roleRepo, permRepo, txManager, logger)
	if err := seeder.Run(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	resolver := auth.NewResolver(userRepo)
	gate := middleware.NewAuthMiddleware(codec, userRepo, logger)

	authHandler := handler.NewAuthHandler(authService, gate)
	userHandler := handler.NewUserHandler(userService, gate)
	roleHandler := handler.NewRoleHandler(roleService, gate)
	permHandler := handler.NewPermissionHandler(permService, gate)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, gate)

	// Set up Gin Router
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// WebSocket endpoint for directory change events
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, codec, resolver)
	})

	// Register API routes
	authHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	roleHandler.RegisterRoutes(router.Group(""))
	permHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
