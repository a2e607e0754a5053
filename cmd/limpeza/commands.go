package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/internal/routes"
	"github.com/msv-stihl/limpeza/internal/services/report"
	"github.com/msv-stihl/limpeza/internal/services/schedule"
)

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	var opts []report.PublisherOption
	if cfg.GitEnabled && !noGit {
		opts = append(opts, report.WithGit(routes.NewGitRepository(cfg, logger)))
	}
	rebuilder, err := a.rebuilder(ctx, cfg, a.publisher(cfg, logger, opts...), logger)
	if err != nil {
		return err
	}
	built, err := rebuilder.Run(ctx)
	if err != nil {
		return err
	}
	for _, shift := range schedule.ShiftNames() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", shift, len(built.Missing(shift)))
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	if a.readings == nil {
		return fmt.Errorf("import needs DATABASE_DSN")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	readings, err := schedule.ReadExport(f, cfg.Location())
	if err != nil {
		return err
	}
	n, err := a.readings.UpsertAll(ctx, readings)
	if err != nil {
		return err
	}
	logger.Info("readings imported", zap.String("file", args[0]), zap.Int("stored", n))
	fmt.Fprintf(cmd.OutOrStdout(), "%d registros salvos\n", n)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	repo := routes.NewGitRepository(cfg, logger)
	return repo.Sync(cmd.Context(), []string{cfg.OutputFile}, report.CommitMessage(time.Now().In(cfg.Location())))
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	st := a.status(cfg, logger)(ctx)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(st)
}
