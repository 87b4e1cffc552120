package app

import (
	"github.com/Navaneeth433/Murdermystery/docs"
	"github.com/Navaneeth433/Murdermystery/internal/config"
	"github.com/Navaneeth433/Murdermystery/internal/middleware"
	"github.com/Navaneeth433/Murdermystery/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 玩家路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	a.registerPlayerRoutes(authGroup, c)

	// 3. 管理员路由
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/admin/login", c.auth.AdminLogin)

		// 匿名可见（占位与未解锁状态），登录后按进度计算
		public.GET("/chapters", middleware.TryAuthMiddleware(cfg.JWT.Secret), c.chapter.ListChapters)
	}
}

func (a *App) registerPlayerRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/me", c.auth.Me)

	chapters := group.Group("/chapters")
	{
		chapters.GET("/:id", c.chapter.GetChapter)
		chapters.POST("/:id/start", c.chapter.StartAttempt)
		chapters.POST("/:id/submit", c.chapter.SubmitAttempt)
	}

	group.GET("/leaderboard", middleware.AdminMiddleware(), c.leaderboard.GetLeaderboard)
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.AdminMiddleware())
	{
		admin.GET("/contents", c.admin.ListContents)
		admin.POST("/contents", c.admin.CreateContent)
		admin.PUT("/contents/:id", c.admin.UpdateContent)
		admin.DELETE("/contents/:id", c.admin.DeleteContent)
		admin.POST("/contents/:id/toggle", c.admin.ToggleContent)
		admin.POST("/contents/:id/panels", c.admin.UploadPanel)

		admin.GET("/attempts", c.admin.ListAttempts)
		admin.DELETE("/users/:id", c.admin.DeleteUser)
		admin.GET("/leaderboard", c.leaderboard.GetFullLeaderboard)
	}
}
