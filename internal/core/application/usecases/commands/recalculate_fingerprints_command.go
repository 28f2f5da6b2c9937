package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRecalculateFingerprintsCommandIsNotConstructed = errors.New(
	"RecalculateFingerprintsCommand must be created via NewRecalculateFingerprintsCommand constructor",
)

// RecalculateFingerprintsCommand re-hydrates one page of editable shipments
// whose fingerprint is not complete.
type RecalculateFingerprintsCommand struct {
	after     *kernel.UUID
	batchSize int

	guard guard.ConstructorGuard
}

func NewRecalculateFingerprintsCommand(after *kernel.UUID, batchSize int) (RecalculateFingerprintsCommand, error) {
	size, err := validBatchSize(batchSize)
	if err != nil {
		return RecalculateFingerprintsCommand{}, err
	}

	return RecalculateFingerprintsCommand{
		after:     after,
		batchSize: size,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RecalculateFingerprintsCommand) After() *kernel.UUID { return c.after }
func (c RecalculateFingerprintsCommand) BatchSize() int      { return c.batchSize }

func (c RecalculateFingerprintsCommand) Validate() error {
	return c.guard.Validate(ErrRecalculateFingerprintsCommandIsNotConstructed)
}
