package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/unismart/planner-api/api/swagger"
	"github.com/unismart/planner-api/internal/csvio"
	"github.com/unismart/planner-api/internal/handler"
	internalmiddleware "github.com/unismart/planner-api/internal/middleware"
	"github.com/unismart/planner-api/internal/repository"
	"github.com/unismart/planner-api/internal/service"
	"github.com/unismart/planner-api/pkg/cache"
	"github.com/unismart/planner-api/pkg/config"
	"github.com/unismart/planner-api/pkg/database"
	"github.com/unismart/planner-api/pkg/jobs"
	"github.com/unismart/planner-api/pkg/logger"
	corsmiddleware "github.com/unismart/planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unismart/planner-api/pkg/middleware/requestid"
	"github.com/unismart/planner-api/pkg/storage"
)

// @title Course Planner API
// @version 1.0.0
// @description Generates ranked, conflict-free weekly schedules from the course catalog.
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	checks := map[string]handler.ReadinessCheck{}

	var source service.CatalogSource
	switch cfg.Catalog.Source {
	case config.CatalogSourceCSV:
		source = csvio.FileSource{Path: cfg.Catalog.CSVPath}
		logr.Info("catalog source: csv", zap.String("path", cfg.Catalog.CSVPath))
	default:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect catalog database: %w", err)
		}
		defer db.Close()
		repo := repository.NewCatalogRepository(db)
		source = repo
		checks["database"] = repo.Ping
		logr.Info("catalog source: postgres", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.Name))
	}

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, course listing cache disabled", zap.Error(err))
		} else {
			redisClient = client
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.CatalogTTL, logr, redisClient != nil)

	catalogSvc := service.NewCatalogService(source, cacheSvc, metrics, logr)
	if err := catalogSvc.Reload(ctx); err != nil {
		logr.Error("initial catalog load failed, serving 503 until a refresh succeeds", zap.Error(err))
	}
	checks["catalog"] = func(context.Context) error {
		if !catalogSvc.Ready() {
			return errors.New("catalog not loaded")
		}
		return nil
	}

	engine, err := service.NewScheduleEngine(cfg.Scheduler, logr)
	if err != nil {
		return fmt.Errorf("configure scheduler: %w", err)
	}
	generator := service.NewScheduleGeneratorService(catalogSvc, engine, validator.New(), metrics, logr)

	exportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		return err
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	exporter := service.NewExportService(generator, exportStore, signer, service.ExportConfig{APIPrefix: cfg.APIPrefix}, logr)

	queue := jobs.NewQueue("maintenance", jobs.Route(map[string]jobs.Handler{
		service.JobTypeCatalogRefresh: catalogSvc.RefreshJobHandler(),
		service.JobTypeExportsCleanup: exporter.CleanupJobHandler(),
	}), jobs.QueueConfig{
		Workers:    1,
		MaxRetries: cfg.Catalog.RefreshRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	})
	queue.Start(ctx)
	defer queue.Stop()
	queue.Every(cfg.Catalog.RefreshInterval, jobs.Job{Type: service.JobTypeCatalogRefresh, Unique: true})
	queue.Every(cfg.Exports.CleanupInterval, jobs.Job{Type: service.JobTypeExportsCleanup, Unique: true})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics"))

	ops := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	schedules := handler.NewScheduleGeneratorHandler(generator, exporter)
	courses := handler.NewCourseHandler(catalogSvc)

	api := r.Group(cfg.APIPrefix)
	api.POST("/generate-schedules", schedules.Generate)
	api.POST("/generate-schedules/export", schedules.Export)
	api.GET("/exports/download", schedules.Download)
	api.GET("/courses", courses.List)
	api.GET("/metrics/summary", ops.Summary)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.Scheduler.SearchTimeout + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
