package packaging

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrPackagingTypeIsNotConstructed = errors.New("PackagingType must be created via NewPackagingType")

// PackagingType is a physical box or bag, tied to the station type that packs it.
type PackagingType struct {
	id            kernel.UUID
	name          string
	stationType   StationType
	dimensions    *kernel.Dimensions
	isConstructed bool
}

// NewPackagingType creates a packaging type. dimensions is optional (bags have none).
func NewPackagingType(id kernel.UUID, name string, stationType StationType, dimensions *kernel.Dimensions) (*PackagingType, error) {
	var nameErr error
	if strings.TrimSpace(name) == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	var dimErr error
	if dimensions != nil {
		dimErr = dimensions.Validate()
	}
	if err := errors.Join(id.Validate(), nameErr, stationType.Validate(), dimErr); err != nil {
		return nil, err
	}

	return &PackagingType{
		id:            id,
		name:          name,
		stationType:   stationType,
		dimensions:    dimensions,
		isConstructed: true,
	}, nil
}

func (p *PackagingType) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPackagingTypeIsNotConstructed
	}
	return nil
}

func (p *PackagingType) ID() kernel.UUID                { return p.id }
func (p *PackagingType) Name() string                   { return p.name }
func (p *PackagingType) StationType() StationType       { return p.stationType }
func (p *PackagingType) Dimensions() *kernel.Dimensions { return p.dimensions }
