package services

import (
	"fulfillment/internal/core/domain/model/fingerprint"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
)

// FingerprintEvaluation is the outcome of classifying one shipment's items.
// Signature and TotalWeightOz are set only when Status is complete.
type FingerprintEvaluation struct {
	Status        shipment.FingerprintStatus
	Signature     fingerprint.Signature
	TotalWeightOz decimal.Decimal
}

// FingerprintEngine is a domain service that turns hydrated QC items into a
// content-addressable signature.
//
// Business rules:
//   - A shipment without items, or with any item lacking a collection, is
//     pending_categorization
//   - A fully categorized shipment with any item lacking a weight is missing_weight
//   - Otherwise quantities are summed per collection and weights summed in ounces
//
// Incomplete data is never an error: it is reported through Status so the
// shipment can wait for catalog work.
type FingerprintEngine struct{}

func NewFingerprintEngine() FingerprintEngine {
	return FingerprintEngine{}
}

// Evaluate classifies items. The result depends only on the multiset of
// (collection, quantity) pairs and item weights, never on item order or SKU.
func (FingerprintEngine) Evaluate(items []shipment.QcItem) (FingerprintEvaluation, error) {
	if len(items) == 0 {
		return FingerprintEvaluation{Status: shipment.FingerprintPendingCategorization}, nil
	}

	for _, item := range items {
		if !item.HasCollection() {
			return FingerprintEvaluation{Status: shipment.FingerprintPendingCategorization}, nil
		}
	}
	for _, item := range items {
		if !item.HasWeight() {
			return FingerprintEvaluation{Status: shipment.FingerprintMissingWeight}, nil
		}
	}

	quantities := make(map[kernel.UUID]int, len(items))
	totalOz := decimal.Zero
	for _, item := range items {
		quantities[*item.CollectionID()] += item.Quantity()
		totalOz = totalOz.Add(item.Weight().Ounces().Mul(decimal.NewFromInt(int64(item.Quantity()))))
	}

	sig, err := fingerprint.NewSignature(quantities)
	if err != nil {
		return FingerprintEvaluation{}, err
	}

	return FingerprintEvaluation{
		Status:        shipment.FingerprintComplete,
		Signature:     sig,
		TotalWeightOz: totalOz,
	}, nil
}
