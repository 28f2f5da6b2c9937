package main

import (
	"fmt"
	"os"

	"fulfillment/cmd"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	config cmd.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fulfillment",
	Short: "Warehouse fulfillment pipeline",
	Long: `Turns incoming shipments into packable work: hydrates line items into
QC items, fingerprints item mixes, assigns packaging and stations, and groups
ready shipments into pick sessions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(c *cobra.Command, args []string) error {
		var err error
		if config, err = cmd.LoadConfig(); err != nil {
			return err
		}
		logger, err = newLogger(config.LogLevel)
		return err
	},
	PersistentPostRun: func(c *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, repairLifecycleCmd, recalculateCmd, buildSessionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
