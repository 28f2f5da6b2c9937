// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	FingerprintRepoFactory interface {
		FingerprintRepository() ports.FingerprintRepository
	}

	PackagingRepoFactory interface {
		PackagingRepository() ports.PackagingRepository
	}

	SessionRepoFactory interface {
		SessionRepository() ports.SessionRepository
	}

	// ShipmentUoW manages transactions for shipment-only operations such as
	// the lifecycle repair pass.
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
	}

	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// UoW manages transactions across every aggregate of the pipeline.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   shipments := uow.ShipmentRepository()
	//   fingerprints := uow.FingerprintRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ShipmentRepoFactory
		FingerprintRepoFactory
		PackagingRepoFactory
		SessionRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
