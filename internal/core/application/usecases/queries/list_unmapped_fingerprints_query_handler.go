package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ListUnmappedFingerprintsQueryHandler struct {
	db *gorm.DB
}

func NewListUnmappedFingerprintsQueryHandler(db *gorm.DB) ListUnmappedFingerprintsQueryHandler {
	return ListUnmappedFingerprintsQueryHandler{db: db}
}

func (h ListUnmappedFingerprintsQueryHandler) Handle(
	ctx context.Context,
	query ListUnmappedFingerprintsQuery,
) ([]UnmappedFingerprint, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			f.id,
			f.hash,
			f.display_name,
			f.total_items,
			f.total_weight_oz,
			COUNT(s.id) AS shipment_count
		FROM fingerprints f
		JOIN shipments s ON s.fingerprint_id = f.id
		LEFT JOIN fingerprint_models m ON m.fingerprint_id = f.id
		WHERE m.fingerprint_id IS NULL
			AND s.fingerprint_status = 'complete'
			AND s.fulfillment_session_id IS NULL
			AND NOT s.cancelled
		GROUP BY f.id
		ORDER BY shipment_count DESC, f.display_name, f.id
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]UnmappedFingerprint, 0)
	for rows.Next() {
		var (
			item   UnmappedFingerprint
			id     uuid.UUID
			weight decimal.Decimal
		)
		if err = rows.Scan(&id, &item.Hash, &item.DisplayName, &item.TotalItems, &weight, &item.ShipmentCount); err != nil {
			return nil, err
		}

		fpID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		item.FingerprintID = fpID
		item.TotalWeightOz = weight
		result = append(result, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
