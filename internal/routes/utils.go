package routes

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/config"
	"github.com/msv-stihl/limpeza/internal/lookup"
	"github.com/msv-stihl/limpeza/internal/services/gitsync"
	"github.com/msv-stihl/limpeza/internal/services/report"
	"github.com/msv-stihl/limpeza/internal/services/schedule"
)

const watchDebounce = 2 * time.Second

// NewReportSource picks where the lookup form reads the report from.
func NewReportSource(cfg *config.Config, redisClient *redis.Client) (lookup.Source, error) {
	switch cfg.ReportSource {
	case "", "http":
		// No timeout: one best-effort attempt bounded only by the request.
		return report.NewHTTPSource(cfg.ReportURL, &http.Client{}), nil
	case "file":
		return report.NewFileSource(cfg.ReportFile), nil
	case "redis":
		if redisClient == nil {
			return nil, fmt.Errorf("report source redis needs REDIS_ADDR")
		}
		return report.NewRedisSource(redisClient, cfg.ReportKey), nil
	default:
		return nil, fmt.Errorf("unknown REPORT_SOURCE %q", cfg.ReportSource)
	}
}

// NewLoader reads the schedule from Google Sheets when SCHEDULE_SHEET_ID is
// set and from the local workbook otherwise.
func NewLoader(ctx context.Context, cfg *config.Config) (schedule.Loader, error) {
	if cfg.ScheduleSheetID != "" {
		src, err := schedule.NewSheetsSource(ctx, cfg.ScheduleSheetID, cfg.GoogleCredFile, cfg.Location())
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	return schedule.NewWorkbookSource(cfg.ScheduleWorkbook, cfg.Location()), nil
}

func NewGitRepository(cfg *config.Config, logger *zap.Logger) *gitsync.Repository {
	return gitsync.NewRepository(gitsync.Options{
		Path:        cfg.GitRepoPath,
		Repo:        cfg.GitRepo,
		Token:       cfg.GitToken,
		Branch:      cfg.GitBranch,
		AuthorName:  cfg.GitUserName,
		AuthorEmail: cfg.GitUserEmail,
	}, logger)
}

// StartRebuildTriggers runs the periodic rebuild and the schedule watcher
// when they are configured. Both stop with ctx.
func StartRebuildTriggers(ctx context.Context, cfg *config.Config, rebuilder *schedule.Rebuilder, logger *zap.Logger) {
	if cfg.RebuildInterval > 0 {
		go rebuilder.Loop(ctx, cfg.RebuildInterval)
	}
	if cfg.WatchSchedule && cfg.ScheduleSheetID == "" {
		err := schedule.Watch(ctx, cfg.ScheduleWorkbook, watchDebounce, logger, func() {
			if _, err := rebuilder.Run(ctx); err != nil {
				logger.Error("❌ rebuild after schedule change failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Error("schedule watcher not started", zap.Error(err))
		}
	}
}
