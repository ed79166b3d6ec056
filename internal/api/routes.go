package api

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"resumeflow/internal/api/middleware"
	"resumeflow/internal/auth"
	"resumeflow/internal/config"
	"resumeflow/internal/enhance"
	"resumeflow/internal/storage"
	"resumeflow/internal/store"
	"resumeflow/internal/wizard"
)

// 登录失败锁定策略。
const (
	defaultLoginLockThreshold = 10
	defaultLoginLockTTL       = 15 * time.Minute
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	gateway *store.Gateway,
	sessions *wizard.Manager,
	asynqClient *asynq.Client,
	authService *auth.Service,
	redisClient *redis.Client,
	storageClient *storage.Client,
	pipeline *enhance.Pipeline,
	logger *slog.Logger,
) {
	allowedOrigins := splitOrigins(cfg.API.AllowedOrigins)

	authHandler := NewAuthHandler(db, authService, redisClient, logger,
		cfg.Auth.LoginRatePerIP, defaultLoginLockThreshold, defaultLoginLockTTL, cfg.Auth.CookieDomain)
	wizardHandler := NewWizardHandler(sessions, gateway, cfg.API.MaxResumes)
	resumeHandler := NewResumeHandler(gateway, asynqClient, storageClient)
	enhanceHandler := NewEnhanceHandler(pipeline, logger)
	wsHandler := NewWsHandler(redisClient, authService, logger, allowedOrigins)

	authMiddleware := middleware.AuthMiddleware(authService)
	passwordGate := middleware.RequirePasswordChangeCompletedMiddleware()

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		wizardGroup := v1.Group("/wizard")
		wizardGroup.Use(authMiddleware, passwordGate)
		{
			wizardGroup.POST("/bootstrap", wizardHandler.Bootstrap)
			wizardGroup.GET("", wizardHandler.State)
			wizardGroup.POST("/next", wizardHandler.NextStep)
			wizardGroup.POST("/prev", wizardHandler.PrevStep)
			wizardGroup.PUT("/step", wizardHandler.GotoStep)

			wizardGroup.PUT("/title", wizardHandler.SetTitle)
			wizardGroup.PUT("/summary", wizardHandler.SetSummary)
			wizardGroup.PUT("/theme", wizardHandler.SetTheme)
			wizardGroup.PUT("/contact", wizardHandler.SetContactField)
			wizardGroup.PUT("/additional", wizardHandler.SetAdditionalField)

			wizardGroup.POST("/sections/:section/entries", wizardHandler.AddEntry)
			wizardGroup.PUT("/sections/:section/entries/:index", wizardHandler.UpdateEntry)
			wizardGroup.DELETE("/sections/:section/entries/:index", wizardHandler.RemoveEntry)
			wizardGroup.POST("/sections/:section/entries/:index/achievements", wizardHandler.AddAchievement)
			wizardGroup.PUT("/sections/:section/entries/:index/achievements/:achievement", wizardHandler.UpdateAchievement)
			wizardGroup.DELETE("/sections/:section/entries/:index/achievements/:achievement", wizardHandler.RemoveAchievement)

			wizardGroup.POST("/save", wizardHandler.Save)
			wizardGroup.GET("/download", wizardHandler.Download)
		}

		resumeGroup := v1.Group("/resumes")
		resumeGroup.Use(authMiddleware, passwordGate)
		{
			resumeGroup.GET("", resumeHandler.ListResumes)
			resumeGroup.GET("/:id", resumeHandler.GetResume)
			resumeGroup.DELETE("/:id", resumeHandler.DeleteResume)
			resumeGroup.GET("/:id/download", resumeHandler.DownloadResume)
			resumeGroup.POST("/:id/export", resumeHandler.ExportResume)
			resumeGroup.GET("/:id/export-link", resumeHandler.GetExportLink)
		}

		enhanceGroup := v1.Group("/enhance")
		enhanceGroup.Use(authMiddleware, passwordGate)
		{
			enhanceGroup.POST("", enhanceHandler.Enhance)
		}
	}
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
