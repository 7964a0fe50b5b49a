package app

import (
	"context"
	"explora_backend/internal/config"
	"explora_backend/internal/controller"
	"explora_backend/internal/repository"
	"explora_backend/internal/service"
	"explora_backend/pkg/database"
	"explora_backend/pkg/logger"
	"explora_backend/pkg/monitoring"
	"explora_backend/pkg/security"
	"explora_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user     *repository.UserRepository
	mission  *repository.MissionRepository
	progress *repository.ProgressRepository
	badge    *repository.BadgeRepository
	stats    *repository.StatsRepository
}

type services struct {
	auth      *service.AuthService
	storage   *service.StorageService
	content   *service.ContentService
	reward    *service.RewardService
	mission   *service.MissionService
	query     *service.MissionQueryService
	authoring *service.AuthoringService
}

type controllers struct {
	auth    *controller.AuthController
	mission *controller.MissionController
	badge   *controller.BadgeController
	admin   *controller.AdminController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		mission:  repository.NewMissionRepository(db),
		progress: repository.NewProgressRepository(db),
		badge:    repository.NewBadgeRepository(db),
		stats:    repository.NewStatsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.content = service.NewContentService(repos.mission, rdb)
	s.reward = service.NewRewardService(repos.mission, repos.badge, repos.stats)
	s.mission = service.NewMissionService(repos.mission, repos.progress, repos.badge, repos.stats, s.reward, s.content, db)
	s.query = service.NewMissionQueryService(repos.mission, repos.progress, repos.badge, repos.stats)
	s.authoring = service.NewAuthoringService(repos.mission, repos.badge, s.content, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		mission: controller.NewMissionController(s.mission, s.query),
		badge:   controller.NewBadgeController(s.query),
		admin:   controller.NewAdminController(s.authoring, s.storage),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		_, err := tracing.InitTracer("explora-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.Redis != nil {
		a.Redis.Close()
	}
	logger.Log.Sync()

	log.Println("Server exiting")
}
