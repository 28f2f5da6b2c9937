// Package jobs provides scheduled background sweeps for the fulfillment pipeline.
//
// Jobs are cron-based (github.com/robfig/cron/v3, six-field expressions with
// seconds) and page through shipments in id order until the underlying
// command reports Done.
//
// # Available Jobs
//
//  1. LifecycleRepairJob - recomputes stored lifecycle phases that drifted
//     from the shipment's signals
//  2. FingerprintRecalcJob - retries fingerprinting for shipments stuck in
//     pending_categorization, missing_weight or needs_recalc
//
// # Usage
//
//	jobManager := jobs.NewJobManager(repairHandler, recalcHandler, jobs.Schedules{}, 500, logger)
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// A tick is skipped while the previous sweep of the same job is still running.
// Both jobs expose Run for one-off sweeps from the CLI.
package jobs
