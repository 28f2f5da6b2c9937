package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then publishes the lifecycle
	// events of every tracked shipment.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and discards tracked events.
	Rollback(ctx context.Context) error

	// Repositories returned below use the transaction started by Begin().
	ShipmentRepository() ShipmentRepository
	FingerprintRepository() FingerprintRepository
	PackagingRepository() PackagingRepository
	SessionRepository() SessionRepository
}
