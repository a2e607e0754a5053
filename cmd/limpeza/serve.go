package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/lookup"
	"github.com/msv-stihl/limpeza/internal/routes"
	"github.com/msv-stihl/limpeza/internal/services/realtime"
	"github.com/msv-stihl/limpeza/internal/services/report"
)

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	hub := realtime.NewHub(logger)
	go hub.Run(ctx)

	opts := []report.PublisherOption{report.WithBroadcaster(hub)}
	if cfg.GitEnabled {
		opts = append(opts, report.WithGit(routes.NewGitRepository(cfg, logger)))
	}
	rebuilder, err := a.rebuilder(ctx, cfg, a.publisher(cfg, logger, opts...), logger)
	if err != nil {
		return err
	}
	routes.StartRebuildTriggers(ctx, cfg, rebuilder, logger)

	source, err := routes.NewReportSource(cfg, a.redis)
	if err != nil {
		return err
	}
	svc := routes.Services{
		Lookup:    lookup.NewService(source, logger),
		Rebuilder: rebuilder,
		Status:    a.status(cfg, logger),
		Hub:       hub,
	}
	if a.readings != nil {
		svc.Readings = a.readings
	}
	router := routes.Setup(cfg, svc, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Server starting", zap.String("addr", srv.Addr), zap.String("report_source", cfg.ReportSource))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
