// Package cmd provides the barctl commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/app"
	"github.com/mamadbah2/pillars/internal/config"
	"github.com/mamadbah2/pillars/internal/domain/models"
	"github.com/mamadbah2/pillars/pkg/logger"
)

var (
	envFile string
	dataDir string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "barctl",
	Short: "Inspect and export the daily bar and accommodation records",
	Long: `barctl reads the same per-date record files as the HTTP server.

Example:
  barctl dates
  barctl summary --date 2024-01-01
  barctl export --date 2024-01-01 --format pdf --out report.pdf
  barctl import --date 2024-01-01 --section stock --file stock.csv`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "optional .env file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "record directory (overrides DATA_DIR)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(datesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(publishCmd)
}

// openApp loads configuration and wires the services. Sinks are connected
// only for commands that publish.
func openApp(ctx context.Context, sinks bool) (*app.App, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	if dataDir != "" {
		cfg.Storage.DataDir = dataDir
	}

	log, err := logger.NewCLI(verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("build logger: %w", err)
	}

	a, err := app.New(ctx, cfg, log, app.Options{Sinks: sinks})
	if err != nil {
		_ = log.Sync()
		return nil, nil, err
	}
	return a, log, nil
}

// resolveDate parses the --date flag; blank means today in the business timezone.
func resolveDate(value string, cfg *config.Config) (models.DateKey, error) {
	if value == "" {
		return models.DateKeyFromTime(time.Now().In(cfg.Reporting.Location())), nil
	}
	return models.ParseDateKey(value)
}

func closeApp(a *app.App, log *zap.Logger) {
	if err := a.Close(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "close: %v\n", err)
	}
	_ = log.Sync()
}
