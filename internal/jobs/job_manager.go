package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// Schedules holds the cron expressions (with seconds) for each job.
type Schedules struct {
	LifecycleRepair   string
	FingerprintRecalc string
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	lifecycleRepairJob   *LifecycleRepairJob
	fingerprintRecalcJob *FingerprintRecalcJob
}

func NewJobManager(
	repairHandler RepairLifecycleHandler,
	recalcHandler RecalculateFingerprintsHandler,
	schedules Schedules,
	batchSize int,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		lifecycleRepairJob:   NewLifecycleRepairJob(repairHandler, schedules.LifecycleRepair, batchSize, logger),
		fingerprintRecalcJob: NewFingerprintRecalcJob(recalcHandler, schedules.FingerprintRecalc, batchSize, logger),
	}
}

// StartAll starts all scheduled jobs. If one fails, the ones already
// started are stopped.
func (jm *JobManager) StartAll() error {
	if err := jm.lifecycleRepairJob.Start(); err != nil {
		return fmt.Errorf("failed to start lifecycle repair job: %w", err)
	}

	if err := jm.fingerprintRecalcJob.Start(); err != nil {
		jm.lifecycleRepairJob.Stop()
		return fmt.Errorf("failed to start fingerprint recalculation job: %w", err)
	}

	return nil
}

// StopAll stops all jobs and waits for running sweeps to finish.
func (jm *JobManager) StopAll() {
	jm.fingerprintRecalcJob.Stop()
	jm.lifecycleRepairJob.Stop()
}
