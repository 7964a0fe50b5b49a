package app

import (
	"explora_backend/docs"
	"explora_backend/internal/config"
	"explora_backend/internal/middleware"
	"explora_backend/internal/model"
	"explora_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.Check)

	// 公共路由(无需登录)
	public := router.Group("/api/auth")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 玩家接口
	player := router.Group("/api")
	player.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		player.GET("/auth/profile", c.auth.GetProfile)

		player.GET("/missions", c.mission.ListMissions)
		player.GET("/missions/:id", c.mission.GetMissionDetail)
		player.POST("/missions/:id/start", c.mission.StartMission)

		player.GET("/progress/:id/phase", c.mission.GetCurrentPhase)
		player.POST("/progress/:id/phases/:phaseId/submit", c.mission.SubmitPhaseResponse)
		player.POST("/progress/:id/questions/:questionId/answer", c.mission.SubmitSingleQuizAnswer)
		player.POST("/progress/:id/advance", c.mission.AdvancePhase)

		player.GET("/badges", c.badge.GetCollection)
		player.GET("/dashboard", c.mission.GetDashboard)
		player.GET("/leaderboard", c.mission.GetLeaderboard)
	}

	// 管理员接口
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/missions", c.admin.CreateMission)
		admin.PATCH("/missions/:id/active", c.admin.SetMissionActive)
		admin.POST("/badges", c.admin.CreateBadge)
		admin.POST("/assets", c.admin.UploadAsset)
	}
}
