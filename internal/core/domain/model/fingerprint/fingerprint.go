package fingerprint

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var ErrFingerprintIsNotConstructed = errors.New("Fingerprint must be created via NewFingerprint or RestoreFingerprint")

// Fingerprint is a content-addressed product bundle. It is created lazily the
// first time a bundle is seen and never changes afterwards.
type Fingerprint struct {
	id            kernel.UUID
	hash          string
	signature     Signature
	totalItems    int
	totalWeightOz decimal.Decimal
	displayName   string
	createdAt     time.Time
	isConstructed bool
}

// NewFingerprint creates the fingerprint for a signature. totalWeightOz is the
// summed bundle weight in ounces.
func NewFingerprint(id kernel.UUID, signature Signature, totalWeightOz decimal.Decimal, createdAt time.Time) (*Fingerprint, error) {
	if err := errors.Join(id.Validate(), validateSignature(signature), validateWeight(totalWeightOz)); err != nil {
		return nil, err
	}

	return &Fingerprint{
		id:            id,
		hash:          signature.Hash(),
		signature:     signature,
		totalItems:    signature.TotalItems(),
		totalWeightOz: totalWeightOz,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func RestoreFingerprint(
	id kernel.UUID,
	hash string,
	signature Signature,
	totalItems int,
	totalWeightOz decimal.Decimal,
	displayName string,
	createdAt time.Time,
) (*Fingerprint, error) {
	var hashErr error
	if strings.TrimSpace(hash) == "" {
		hashErr = errs.NewValueIsRequiredError("hash")
	}
	if err := errors.Join(id.Validate(), hashErr, validateSignature(signature)); err != nil {
		return nil, err
	}

	return &Fingerprint{
		id:            id,
		hash:          hash,
		signature:     signature,
		totalItems:    totalItems,
		totalWeightOz: totalWeightOz,
		displayName:   displayName,
		createdAt:     createdAt,
		isConstructed: true,
	}, nil
}

func (f *Fingerprint) Validate() error {
	if f == nil || !f.isConstructed {
		return ErrFingerprintIsNotConstructed
	}
	return nil
}

func (f *Fingerprint) ID() kernel.UUID                { return f.id }
func (f *Fingerprint) Hash() string                   { return f.hash }
func (f *Fingerprint) Signature() Signature           { return f.signature }
func (f *Fingerprint) TotalItems() int                { return f.totalItems }
func (f *Fingerprint) TotalWeightOz() decimal.Decimal { return f.totalWeightOz }
func (f *Fingerprint) DisplayName() string            { return f.displayName }
func (f *Fingerprint) CreatedAt() time.Time           { return f.createdAt }

func validateSignature(s Signature) error {
	if s.IsEmpty() {
		return errs.NewValueIsRequiredError("signature")
	}
	return nil
}

func validateWeight(w decimal.Decimal) error {
	if w.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("total weight", errors.New("weight is negative"))
	}
	return nil
}
