package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/config"
	"github.com/msv-stihl/limpeza/db"
	"github.com/msv-stihl/limpeza/internal/repositories"
	"github.com/msv-stihl/limpeza/internal/routes"
	"github.com/msv-stihl/limpeza/internal/services/report"
	"github.com/msv-stihl/limpeza/internal/services/schedule"
	"github.com/msv-stihl/limpeza/internal/services/status"
)

// app holds the optional backends. Nil fields are not configured.
type app struct {
	redis    *redis.Client
	database *sql.DB
	readings *repositories.ChecklistRepository
}

func openApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}
	if cfg.RedisAddr != "" {
		client := config.NewRedisClient(cfg)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			client.Close()
			if cfg.ReportSource == "redis" {
				return nil, fmt.Errorf("connect to redis: %w", err)
			}
			logger.Warn("redis unavailable, continuing without it", zap.Error(err))
		} else {
			a.redis = client
		}
	}
	if cfg.DatabaseDSN != "" {
		database, err := db.InitDB(cfg.DatabaseDSN)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.database = database
		a.readings = repositories.NewChecklistRepository(database)
	}
	if cfg.ReadingsFrom == "db" && a.readings == nil {
		a.Close()
		return nil, fmt.Errorf("READINGS_FROM=db needs DATABASE_DSN")
	}
	return a, nil
}

func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
}

func (a *app) publisher(cfg *config.Config, logger *zap.Logger, opts ...report.PublisherOption) *report.Publisher {
	if a.redis != nil {
		opts = append(opts, report.WithRedis(a.redis, cfg.ReportKey))
	}
	return report.NewPublisher(cfg.OutputFile, logger, opts...)
}

func (a *app) rebuilder(ctx context.Context, cfg *config.Config, publisher *report.Publisher, logger *zap.Logger) (*schedule.Rebuilder, error) {
	loader, err := routes.NewLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	var store schedule.ReadingsStore
	if cfg.ReadingsFrom == "db" {
		store = a.readings
	}
	return schedule.NewRebuilder(loader, store, publisher, logger).InLocation(cfg.Location()), nil
}

func (a *app) status(cfg *config.Config, logger *zap.Logger) func(ctx context.Context) status.Report {
	files := []string{cfg.OutputFile}
	if cfg.ScheduleSheetID == "" {
		files = append(files, cfg.ScheduleWorkbook)
	}
	var git status.GitStatuser
	if cfg.GitEnabled {
		git = routes.NewGitRepository(cfg, logger)
	}
	var counter status.Counter
	if a.readings != nil {
		counter = a.readings
	}
	return func(ctx context.Context) status.Report {
		return status.Check(ctx, files, git, counter)
	}
}
