package jobs

import (
	"context"
	"fmt"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultLifecycleRepairSchedule runs the repair sweep every fifteen minutes.
const DefaultLifecycleRepairSchedule = "0 */15 * * * *"

type RepairLifecycleHandler interface {
	Handle(ctx context.Context, command commands.RepairLifecycleCommand) (commands.RepairLifecycleResult, error)
}

// LifecycleRepairJob periodically recomputes stored lifecycle phases for every
// shipment, one keyset page at a time.
type LifecycleRepairJob struct {
	handler   RepairLifecycleHandler
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewLifecycleRepairJob(handler RepairLifecycleHandler, schedule string, batchSize int, logger *zap.Logger) *LifecycleRepairJob {
	if schedule == "" {
		schedule = DefaultLifecycleRepairSchedule
	}
	return &LifecycleRepairJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      newCron(),
		logger:    logger.With(zap.String("component", "lifecycle_repair_job")),
	}
}

func (j *LifecycleRepairJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.Run(context.Background()); err != nil {
			j.logger.Error("Lifecycle repair sweep failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.Info("Lifecycle repair job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *LifecycleRepairJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Lifecycle repair job stopped")
}

// Run sweeps all shipments once and returns the totals.
func (j *LifecycleRepairJob) Run(ctx context.Context) (commands.RepairLifecycleResult, error) {
	var (
		total commands.RepairLifecycleResult
		after *kernel.UUID
	)
	for {
		cmd, err := commands.NewRepairLifecycleCommand(after, j.batchSize)
		if err != nil {
			return total, err
		}

		page, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			return total, err
		}

		total.Scanned += page.Scanned
		total.Repaired += page.Repaired
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

	j.logger.Info("Lifecycle repair sweep finished",
		zap.Int("scanned", total.Scanned),
		zap.Int("repaired", total.Repaired),
	)
	return total, nil
}

// newCron skips a tick while the previous sweep is still running.
func newCron() *cron.Cron {
	return cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
}
