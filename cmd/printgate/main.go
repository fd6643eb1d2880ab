package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/printgate/printgate/api/swagger"
	"github.com/printgate/printgate/internal/handler"
	"github.com/printgate/printgate/internal/middleware"
	"github.com/printgate/printgate/internal/repository"
	"github.com/printgate/printgate/internal/service"
	"github.com/printgate/printgate/pkg/cache"
	"github.com/printgate/printgate/pkg/cleanup"
	"github.com/printgate/printgate/pkg/config"
	"github.com/printgate/printgate/pkg/database"
	"github.com/printgate/printgate/pkg/logger"
	corsmiddleware "github.com/printgate/printgate/pkg/middleware/cors"
	reqidmiddleware "github.com/printgate/printgate/pkg/middleware/requestid"
	"github.com/printgate/printgate/pkg/storage"
)

// @title PrintGate API
// @version 0.1.0
// @description One-time, secret-gated print authorization service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		cancelMigrate()
		logr.Sugar().Fatalw("failed to apply migrations", "error", err)
	}
	cancelMigrate()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, verification rate limiting disabled", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	objects, err := storage.New(cfg.Storage)
	if err != nil {
		logr.Sugar().Fatalw("failed to init object storage", "error", err)
	}

	sweeper := cleanup.NewSweeper(objects, cleanup.Config{Workers: 2, Logger: logr})
	sweeper.Start(context.Background())
	defer sweeper.Stop()

	jobRepo := repository.NewJobRepository(db)
	metricsSvc := service.NewMetricsService()
	sessionSvc := service.NewSessionService(cfg.Session, logr)
	jobSvc := service.NewJobService(jobRepo, objects, sweeper, validator.New(), cfg.Print, logr)
	verifySvc := service.NewVerifyService(jobRepo, metricsSvc, logr)
	renderSvc := service.NewRenderService(jobRepo, objects, cfg.Print.MaxCopies, metricsSvc, logr)

	sessionHandler := handler.NewSessionHandler(sessionSvc)
	jobHandler := handler.NewJobHandler(jobSvc)
	printHandler := handler.NewPrintHandler(jobSvc, verifySvc, renderSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/sessions", sessionHandler.Create)

		owner := api.Group("/jobs", middleware.Session(sessionSvc))
		{
			owner.POST("", jobHandler.Create)
			owner.GET("", jobHandler.List)
			owner.DELETE("", jobHandler.Purge)
			owner.GET("/:id/receipt", jobHandler.Receipt)
		}
		api.GET("/exports/jobs", middleware.Session(sessionSvc), jobHandler.Export)

		api.GET("/print/:token", printHandler.GetByToken)
		api.POST("/jobs/:id/verify",
			middleware.VerifyRateLimit(redisClient, cfg.RateLimit, metricsSvc, logr),
			printHandler.Verify)
		api.POST("/jobs/:id/render", printHandler.Render)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
