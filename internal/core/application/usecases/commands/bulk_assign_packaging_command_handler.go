package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// BulkAssignItemResult is the outcome for one fingerprint of a bulk assignment.
type BulkAssignItemResult struct {
	FingerprintID kernel.UUID
	Result        AssignPackagingResult
	Err           error
}

type BulkAssignPackagingResult struct {
	Succeeded        int
	Failed           int
	ShipmentsUpdated int
	Items            []BulkAssignItemResult
}

// BulkAssignPackagingCommandHandler runs each assignment in its own
// transaction. A failed fingerprint is reported and the rest still apply.
type BulkAssignPackagingCommandHandler struct {
	single AssignPackagingCommandHandler
}

func NewBulkAssignPackagingCommandHandler(single AssignPackagingCommandHandler) BulkAssignPackagingCommandHandler {
	return BulkAssignPackagingCommandHandler{single: single}
}

func (h BulkAssignPackagingCommandHandler) Handle(
	ctx context.Context,
	command BulkAssignPackagingCommand,
) (BulkAssignPackagingResult, error) {
	if err := command.Validate(); err != nil {
		return BulkAssignPackagingResult{}, err
	}

	var out BulkAssignPackagingResult
	for _, assignment := range command.Assignments() {
		res, err := h.single.Handle(ctx, assignment)
		out.Items = append(out.Items, BulkAssignItemResult{
			FingerprintID: assignment.FingerprintID(),
			Result:        res,
			Err:           err,
		})
		if err != nil {
			out.Failed++
			continue
		}
		out.Succeeded++
		out.ShipmentsUpdated += res.ShipmentsUpdated
	}

	return out, nil
}
