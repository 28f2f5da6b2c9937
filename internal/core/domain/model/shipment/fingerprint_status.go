package shipment

import (
	"fmt"

	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/errs"
)

// FingerprintStatus tracks how far a shipment got through classification.
// Incomplete data is a status, not an error.
type FingerprintStatus string

const (
	FingerprintPendingCategorization FingerprintStatus = "pending_categorization"
	FingerprintMissingWeight         FingerprintStatus = "missing_weight"
	FingerprintNeedsRecalc           FingerprintStatus = "needs_recalc"
	FingerprintComplete              FingerprintStatus = lifecycle.FingerprintComplete
)

func (s FingerprintStatus) Validate() error {
	switch s {
	case FingerprintPendingCategorization, FingerprintMissingWeight, FingerprintNeedsRecalc, FingerprintComplete:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("fingerprint status", fmt.Errorf("%q is not a valid status", string(s)))
}

func (s FingerprintStatus) String() string {
	return string(s)
}
