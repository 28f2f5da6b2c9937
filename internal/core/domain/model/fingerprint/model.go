package fingerprint

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Confidence records where a packaging rule came from.
type Confidence string

const (
	ConfidenceManual  Confidence = "manual"
	ConfidenceLearned Confidence = "learned"
)

func (c Confidence) Validate() error {
	if c != ConfidenceManual && c != ConfidenceLearned {
		return errs.NewValueIsInvalidErrorWithCause("confidence", fmt.Errorf("%q is not a valid confidence", string(c)))
	}
	return nil
}

var ErrModelIsNotConstructed = errors.New("Model must be created via NewManualModel or RestoreModel")

// Model is the curated packaging rule for one fingerprint. There is at most
// one per fingerprint; a new assignment replaces it.
type Model struct {
	fingerprintID   kernel.UUID
	packagingTypeID kernel.UUID
	confidence      Confidence
	notes           string
	actor           string
	updatedAt       time.Time
	isConstructed   bool
}

// NewManualModel creates a rule entered by an operator.
func NewManualModel(fingerprintID, packagingTypeID kernel.UUID, actor, notes string, now time.Time) (*Model, error) {
	return RestoreModel(fingerprintID, packagingTypeID, ConfidenceManual, actor, notes, now)
}

func RestoreModel(
	fingerprintID, packagingTypeID kernel.UUID,
	confidence Confidence,
	actor, notes string,
	updatedAt time.Time,
) (*Model, error) {
	if err := errors.Join(fingerprintID.Validate(), packagingTypeID.Validate(), confidence.Validate()); err != nil {
		return nil, err
	}
	if strings.TrimSpace(actor) == "" {
		actor = "system"
	}

	return &Model{
		fingerprintID:   fingerprintID,
		packagingTypeID: packagingTypeID,
		confidence:      confidence,
		notes:           notes,
		actor:           actor,
		updatedAt:       updatedAt,
		isConstructed:   true,
	}, nil
}

func (m *Model) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrModelIsNotConstructed
	}
	return nil
}

func (m *Model) FingerprintID() kernel.UUID   { return m.fingerprintID }
func (m *Model) PackagingTypeID() kernel.UUID { return m.packagingTypeID }
func (m *Model) Confidence() Confidence       { return m.confidence }
func (m *Model) Notes() string                { return m.notes }
func (m *Model) Actor() string                { return m.actor }
func (m *Model) UpdatedAt() time.Time         { return m.updatedAt }
