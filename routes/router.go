package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/teamlog/logcabin/config"
	"github.com/teamlog/logcabin/controllers"
	"github.com/teamlog/logcabin/middleware"
	"github.com/teamlog/logcabin/services"
	"github.com/teamlog/logcabin/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, clock *services.Clock) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	coordinator := services.NewRewardCoordinator(db, clock, cfg.DifficultyRatio)
	roster := services.NewTeamRoster(db, cfg.TeamMaxMembers)

	authController := controllers.NewAuthController(db)
	projectController := controllers.NewProjectController(db, roster, coordinator.Aggregator())
	memoController := controllers.NewMemoController(db, coordinator)
	taggingController := controllers.NewTaggingController(db, coordinator)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	protected.POST("/projects", projectController.CreateProject)
	protected.GET("/projects", projectController.ListProjects)
	protected.GET("/projects/:id", projectController.GetProject)
	protected.PUT("/projects/:id", projectController.UpdateProject)
	protected.PATCH("/projects/:id", projectController.UpdateProject)
	protected.DELETE("/projects/:id", projectController.DeleteProject)
	protected.POST("/projects/join", projectController.JoinByInvite)
	protected.GET("/projects/:id/members", projectController.ListTeamMembers)
	protected.GET("/projects/:id/house", projectController.GetHouse)
	protected.GET("/projects/:id/contribution", projectController.GetContribution)

	protected.POST("/projects/:id/tagstyles", taggingController.CreateTagStyle)
	protected.DELETE("/projects/:id/tagstyles/:styleId", taggingController.DeleteTagStyle)
	protected.GET("/projects/:id/taggings", taggingController.ListProjectTaggings)

	protected.POST("/memos", memoController.CreateMemo)
	protected.GET("/memos", memoController.ListMyMemos)
	protected.GET("/memos/:memoId", memoController.GetMemo)
	protected.PUT("/memos/:memoId", memoController.UpdateMemo)
	protected.DELETE("/memos/:memoId", memoController.DeleteMemo)

	protected.POST("/memos/:memoId/taggings", taggingController.CreateTagging)
	protected.GET("/memos/:memoId/taggings", taggingController.ListMemoTaggings)
	protected.PUT("/taggings/:taggingId", taggingController.UpdateTagging)
	protected.DELETE("/taggings/:taggingId", taggingController.DeleteTagging)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
