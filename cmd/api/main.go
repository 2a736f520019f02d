package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/AD-Archer/Student-interaction-sub000/api/swagger"
	"github.com/AD-Archer/Student-interaction-sub000/internal/handler"
	"github.com/AD-Archer/Student-interaction-sub000/internal/middleware"
	"github.com/AD-Archer/Student-interaction-sub000/internal/models"
	"github.com/AD-Archer/Student-interaction-sub000/internal/repository"
	"github.com/AD-Archer/Student-interaction-sub000/internal/scheduler"
	"github.com/AD-Archer/Student-interaction-sub000/internal/service"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/cache"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/config"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/database"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/logger"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/mailer"
	corsmiddleware "github.com/AD-Archer/Student-interaction-sub000/pkg/middleware/cors"
	reqidmiddleware "github.com/AD-Archer/Student-interaction-sub000/pkg/middleware/requestid"
	"github.com/AD-Archer/Student-interaction-sub000/pkg/storage"
)

// @title Student Interaction Tracker API
// @version 1.0.0
// @description Staff tooling for tracking student contact cadence and follow-ups
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsService := service.NewMetricsService()
	cacheService := service.NewCacheService(cacheRepo, metricsService, cfg.Analytics.CacheTTL, logr, redisClient != nil)

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "student-interaction-api",
	})
	settingsService := service.NewSettingsService(settingsRepo, cacheService, validate, logr)
	studentService := service.NewStudentService(studentRepo, settingsService, validate, logr)
	interactionService := service.NewInteractionService(interactionRepo, studentRepo, validate, logr)
	userService := service.NewUserService(userRepo, validate, logr)
	analyticsService := service.NewAnalyticsService(analyticsRepo, studentService, settingsService, cacheService, metricsService, logr)
	dashboardService := service.NewDashboardService(analyticsService, studentService, interactionRepo, cacheService, logr)

	var mail mailer.Mailer
	if cfg.Email.Provider == "sendgrid" && cfg.Email.SendgridKey != "" {
		mail = mailer.NewSendgridMailer(cfg.Email, logr)
	} else {
		mail = mailer.NewConsoleMailer(logr)
	}
	followUpService := service.NewFollowUpService(interactionRepo, settingsService, mail, metricsService, logr)

	aiService := service.NewAIService(service.AIConfig{
		Enabled: cfg.AI.Enabled,
		BaseURL: cfg.AI.BaseURL,
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, validate, logr)

	var exportService *service.ExportService
	if cfg.Exports.Enabled {
		store, storeErr := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if storeErr != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", storeErr)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportService = service.NewExportService(studentRepo, interactionRepo, store, signer, analyticsService, service.ExportConfig{
			APIPrefix:  cfg.APIPrefix,
			ResultTTL:  cfg.Exports.SignedURLTTL,
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
		}, logr, nil, nil)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if exportService != nil {
		exportService.Start(rootCtx)
		defer exportService.Stop()
	}

	var exportCleaner *service.ExportService
	if exportService != nil && cfg.Exports.CleanupInterval > 0 {
		exportCleaner = exportService
	}
	sched := scheduler.New(followUpService, exportCleaner, scheduler.Config{
		FollowUpsEnabled:      cfg.FollowUps.Enabled,
		FollowUpSpec:          cfg.FollowUps.CronSpec,
		FollowUpTimeout:       cfg.FollowUps.Timeout,
		ExportCleanupEnabled:  exportCleaner != nil,
		ExportCleanupInterval: cfg.Exports.CleanupInterval,
	}, logr)
	if err := sched.Start(); err != nil {
		logr.Sugar().Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	authHandler := handler.NewAuthHandler(authService)
	studentHandler := handler.NewStudentHandler(studentService)
	interactionHandler := handler.NewInteractionHandler(interactionService)
	userHandler := handler.NewUserHandler(userService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	followUpHandler := handler.NewFollowUpHandler(followUpService)
	aiHandler := handler.NewAIHandler(aiService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	if exportService != nil {
		// Download auth is the signed token itself.
		api.GET("/exports/:id/download", handler.NewExportHandler(exportService).Download)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authService))

	authed.POST("/auth/logout", authHandler.Logout)
	authed.POST("/auth/change-password", authHandler.ChangePassword)
	authed.GET("/auth/me", authHandler.Me)

	authed.GET("/students", studentHandler.List)
	authed.GET("/students/needing-interaction", studentHandler.NeedingInteraction)
	authed.POST("/students", studentHandler.Create)
	authed.GET("/students/:id", studentHandler.Get)
	authed.PUT("/students/:id", studentHandler.Update)
	authed.DELETE("/students/:id", studentHandler.Delete)

	authed.GET("/interactions", interactionHandler.List)
	authed.POST("/interactions", interactionHandler.Create)
	authed.GET("/interactions/:id", interactionHandler.Get)
	authed.PUT("/interactions/:id", interactionHandler.Update)
	authed.DELETE("/interactions/:id", interactionHandler.Archive)
	authed.POST("/interactions/:id/archive", interactionHandler.Archive)
	authed.POST("/interactions/:id/follow-up/sent", interactionHandler.MarkFollowUpSent)

	authed.GET("/settings/formula", settingsHandler.Get)
	authed.PUT("/settings/formula", middleware.RequireRoles(models.RoleAdmin), settingsHandler.Update)

	if cfg.Analytics.Enabled {
		authed.GET("/analytics/summary", analyticsHandler.Summary)
		authed.GET("/analytics/system", middleware.RequireRoles(models.RoleAdmin), analyticsHandler.System)
	}
	if cfg.Dashboard.Enabled {
		authed.GET("/dashboard", dashboardHandler.Overview)
	}

	authed.POST("/ai/summarize", aiHandler.Summarize)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	authed.GET("/users/:id", middleware.RBAC("ADMIN", "SELF"), userHandler.Get)
	authed.PUT("/users/:id", middleware.RBAC("ADMIN", "SELF"), userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	admin.POST("/followups/run", followUpHandler.Run)
	admin.POST("/followups/test-email", followUpHandler.SendTest)

	if exportService != nil {
		exportHandler := handler.NewExportHandler(exportService)
		authed.POST("/exports", exportHandler.Create)
		authed.GET("/exports/:id", exportHandler.Get)
		admin.POST("/imports/students", exportHandler.ImportStudents)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-rootCtx.Done()
	logr.Sugar().Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
