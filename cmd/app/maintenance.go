package main

import (
	"context"
	"encoding/json"
	"os"

	"fulfillment/cmd"
	"fulfillment/internal/jobs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var repairLifecycleCmd = &cobra.Command{
	Use:   "repair-lifecycle",
	Short: "Recompute stored lifecycle phases for every shipment",
	RunE: func(c *cobra.Command, _ []string) error {
		return withRoot(c.Context(), func(ctx context.Context, root *cmd.CompositionRoot) error {
			job := jobs.NewLifecycleRepairJob(root.CreateRepairLifecycleCommandHandler(), "", config.BatchSize, logger)
			result, err := job.Run(ctx)
			if err != nil {
				return err
			}
			return printJSON(result)
		})
	},
}

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Retry fingerprinting for shipments waiting on catalog data",
	RunE: func(c *cobra.Command, _ []string) error {
		return withRoot(c.Context(), func(ctx context.Context, root *cmd.CompositionRoot) error {
			job := jobs.NewFingerprintRecalcJob(root.CreateRecalculateFingerprintsCommandHandler(), "", config.BatchSize, logger)
			result, err := job.Run(ctx)
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"processed":    result.Processed,
				"completed":    result.Completed,
				"stillPending": result.StillPending,
				"errors":       len(result.Errors),
				"done":         result.Done,
			})
		})
	},
}

func withRoot(ctx context.Context, fn func(ctx context.Context, root *cmd.CompositionRoot) error) error {
	db, err := cmd.OpenDatabase(config, logger)
	if err != nil {
		return err
	}
	root, err := cmd.NewCompositionRoot(ctx, config, db, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := root.Close(); err != nil {
			logger.Warn("Shutdown was not clean", zap.Error(err))
		}
	}()
	return fn(ctx, root)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
