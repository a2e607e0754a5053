package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/msv-stihl/limpeza/config"
)

var (
	verbose bool
	noGit   bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "limpeza",
	Short: "Ambientes de limpeza faltantes por turno",
	Long: `limpeza serves the shift lookup form and builds faltando.json, the list of
scheduled cleaning environments that were not checked in during each shift.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.NewConfig()
		var err error
		logger, err = config.NewLogger(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build faltando.json once and publish it",
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

var importCmd = &cobra.Command{
	Use:   "import <export.xlsx>",
	Short: "Store the readings of a checklist export in postgres",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Commit and push faltando.json",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print files, git and database status as JSON",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	buildCmd.Flags().BoolVar(&noGit, "no-git", false, "Skip git sync")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
