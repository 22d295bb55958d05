package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/surfacelog/surface-log-api/api/swagger"
	"github.com/surfacelog/surface-log-api/internal/handler"
	"github.com/surfacelog/surface-log-api/internal/middleware"
	"github.com/surfacelog/surface-log-api/internal/repository"
	"github.com/surfacelog/surface-log-api/internal/service"
	"github.com/surfacelog/surface-log-api/pkg/cache"
	"github.com/surfacelog/surface-log-api/pkg/config"
	"github.com/surfacelog/surface-log-api/pkg/database"
	"github.com/surfacelog/surface-log-api/pkg/logger"
	corsmiddleware "github.com/surfacelog/surface-log-api/pkg/middleware/cors"
	reqidmiddleware "github.com/surfacelog/surface-log-api/pkg/middleware/requestid"
)

// @title The Surface Log API
// @version 1.0.0
// @description Community-reported player interaction board
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	// Redis is optional: the board serves uncached when it is unreachable.
	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, leaderboard caching disabled", "error", err)
		cacheSvc = service.NewCacheService(nil, metricsSvc, cfg.Leaderboard.CacheTTL, logr, false)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Leaderboard.CacheTTL, logr, true)
	}

	handleRepo := repository.NewHandleRepository(db)
	logRepo := repository.NewLogRepository(db)
	flagRepo := repository.NewFlagRepository(db)
	disputeRepo := repository.NewDisputeRepository(db)

	validate := validator.New()

	authSvc := service.NewAuthService(service.AuthConfig{
		TokenSecret: cfg.Auth.TokenSecret,
		Issuer:      cfg.Auth.Issuer,
		Audience:    cfg.Auth.Audience,
	}, logr)
	handleSvc := service.NewHandleService(handleRepo, metricsSvc, logr)
	logSvc := service.NewLogService(handleSvc, handleRepo, logRepo, flagRepo, cacheSvc, metricsSvc, validate, logr, service.LogServiceConfig{
		FeedDefaultLimit:  cfg.Feed.DefaultLimit,
		FeedMaxLimit:      cfg.Feed.MaxLimit,
		SearchHandleLimit: cfg.Search.HandleLimit,
		SearchLogLimit:    cfg.Search.LogLimit,
	})
	flagSvc := service.NewFlagService(flagRepo, logr)
	disputeSvc := service.NewDisputeService(disputeRepo, logr)
	boardSvc := service.NewLeaderboardService(logRepo, cacheSvc, logr, service.LeaderboardServiceConfig{
		WindowLimit: cfg.Leaderboard.WindowLimit,
		TopN:        cfg.Leaderboard.TopN,
		CacheTTL:    cfg.Leaderboard.CacheTTL,
	})
	exportSvc := service.NewExportService(logSvc, logr)

	logHandler := handler.NewLogHandler(logSvc)
	handleHandler := handler.NewHandleHandler(logSvc, exportSvc)
	flagHandler := handler.NewFlagHandler(flagSvc)
	disputeHandler := handler.NewDisputeHandler(disputeSvc)
	boardHandler := handler.NewLeaderboardHandler(boardSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/feed", middleware.OptionalJWT(authSvc), logHandler.Feed)
		api.GET("/search", logHandler.Search)
		api.GET("/leaderboard", boardHandler.Get)
		api.GET("/handles/:handle/logs", handleHandler.History)
		if cfg.Export.Enabled {
			api.GET("/handles/:handle/export", handleHandler.Export)
		}

		authed := api.Group("")
		authed.Use(middleware.JWT(authSvc))
		{
			authed.POST("/logs", logHandler.Submit)
			authed.POST("/logs/:id/flags", flagHandler.Create)
			authed.POST("/logs/:id/disputes", disputeHandler.Create)
			authed.GET("/flags/mine", flagHandler.Mine)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
