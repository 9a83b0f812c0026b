package main

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unismart/planner-api/internal/csvio"
	"github.com/unismart/planner-api/internal/repository"
	"github.com/unismart/planner-api/internal/service"
	"github.com/unismart/planner-api/pkg/config"
	"github.com/unismart/planner-api/pkg/database"
	"github.com/unismart/planner-api/pkg/logger"
)

// environment holds the services a command needs. The CLI never talks to Redis;
// the course listing cache stays disabled.
type environment struct {
	cfg       *config.Config
	logger    *zap.Logger
	catalog   *service.CatalogService
	generator *service.ScheduleGeneratorService
	closers   []func() error
}

func setup(ctx context.Context, opts *rootOptions) (*environment, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	} else {
		cfg.Log.Level = "warn"
	}
	cfg.Log.Format = "console"
	logr, err := logger.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	env := &environment{cfg: cfg, logger: logr}

	var source service.CatalogSource
	switch {
	case opts.catalogPath != "":
		source = csvio.FileSource{Path: opts.catalogPath}
	case cfg.Catalog.Source == config.CatalogSourceCSV:
		source = csvio.FileSource{Path: cfg.Catalog.CSVPath}
	default:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect catalog database: %w", err)
		}
		env.closers = append(env.closers, db.Close)
		source = repository.NewCatalogRepository(db)
	}

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(nil, logr), metrics, cfg.Cache.CatalogTTL, logr, false)
	env.catalog = service.NewCatalogService(source, cacheSvc, metrics, logr)
	if err := env.catalog.Reload(ctx); err != nil {
		env.Close()
		return nil, err
	}

	engine, err := service.NewScheduleEngine(cfg.Scheduler, logr)
	if err != nil {
		env.Close()
		return nil, fmt.Errorf("configure scheduler: %w", err)
	}
	env.generator = service.NewScheduleGeneratorService(env.catalog, engine, validator.New(), metrics, logr)
	return env, nil
}

func (e *environment) Close() {
	for _, closeFn := range e.closers {
		_ = closeFn()
	}
	_ = e.logger.Sync()
}
