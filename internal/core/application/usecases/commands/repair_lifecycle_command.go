package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// DefaultBatchSize is the page size of maintenance passes.
const DefaultBatchSize = 500

var ErrRepairLifecycleCommandIsNotConstructed = errors.New(
	"RepairLifecycleCommand must be created via NewRepairLifecycleCommand constructor",
)

// RepairLifecycleCommand re-derives one page of shipments starting after a cursor.
type RepairLifecycleCommand struct {
	after     *kernel.UUID
	batchSize int

	guard guard.ConstructorGuard
}

// NewRepairLifecycleCommand creates a repair of the page after the cursor.
// A nil cursor starts from the first shipment.
func NewRepairLifecycleCommand(after *kernel.UUID, batchSize int) (RepairLifecycleCommand, error) {
	size, err := validBatchSize(batchSize)
	if err != nil {
		return RepairLifecycleCommand{}, err
	}

	return RepairLifecycleCommand{
		after:     after,
		batchSize: size,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RepairLifecycleCommand) After() *kernel.UUID { return c.after }
func (c RepairLifecycleCommand) BatchSize() int      { return c.batchSize }

func (c RepairLifecycleCommand) Validate() error {
	return c.guard.Validate(ErrRepairLifecycleCommandIsNotConstructed)
}

// validBatchSize maps 0 to DefaultBatchSize and rejects negatives.
func validBatchSize(n int) (int, error) {
	switch {
	case n == 0:
		return DefaultBatchSize, nil
	case n < 0:
		return 0, errs.NewValueIsInvalidErrorWithCause("batch size", fmt.Errorf("%d is negative", n))
	}
	return n, nil
}
