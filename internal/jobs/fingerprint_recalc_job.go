package jobs

import (
	"context"
	"fmt"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultFingerprintRecalcSchedule runs the recalculation sweep hourly.
const DefaultFingerprintRecalcSchedule = "0 0 * * * *"

type RecalculateFingerprintsHandler interface {
	Handle(ctx context.Context, command commands.RecalculateFingerprintsCommand) (commands.RecalculateFingerprintsResult, error)
}

// FingerprintRecalcJob retries fingerprinting for shipments that are still
// waiting on catalog data.
type FingerprintRecalcJob struct {
	handler   RecalculateFingerprintsHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewFingerprintRecalcJob(handler RecalculateFingerprintsHandler, schedule string, batchSize int, logger *zap.Logger) *FingerprintRecalcJob {
	if schedule == "" {
		schedule = DefaultFingerprintRecalcSchedule
	}
	return &FingerprintRecalcJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      newCron(),
		logger:    logger.With(zap.String("component", "fingerprint_recalc_job")),
	}
}

func (j *FingerprintRecalcJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.Run(context.Background()); err != nil {
			j.logger.Error("Fingerprint recalculation sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("Fingerprint recalculation job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *FingerprintRecalcJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Fingerprint recalculation job stopped")
}

// Run pages through every incomplete shipment once. Per-shipment failures are
// logged and do not stop the sweep.
func (j *FingerprintRecalcJob) Run(ctx context.Context) (commands.RecalculateFingerprintsResult, error) {
	var (
		total commands.RecalculateFingerprintsResult
		after *kernel.UUID
	)
	for {
		cmd, err := commands.NewRecalculateFingerprintsCommand(after, j.batchSize)
		if err != nil {
			return total, err
		}

		page, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			return total, err
		}

		total.Processed += page.Processed
		total.Completed += page.Completed
		total.StillPending += page.StillPending
		total.Errors = append(total.Errors, page.Errors...)
		for _, failed := range page.Errors {
			j.logger.Warn("Shipment fingerprint recalculation failed",
				zap.String("shipment_id", failed.ShipmentID.String()),
				zap.Error(failed.Err),
			)
		}
		if page.LastID != nil {
			total.LastID = page.LastID
		}
		if page.Done || page.LastID == nil {
			total.Done = true
			break
		}
		after = page.LastID

		if err := ctx.Err(); err != nil {
			return total, err
		}
	}

	j.logger.Info("Fingerprint recalculation sweep finished",
		zap.Int("processed", total.Processed),
		zap.Int("completed", total.Completed),
		zap.Int("still_pending", total.StillPending),
		zap.Int("errors", len(total.Errors)),
	)
	return total, nil
}
