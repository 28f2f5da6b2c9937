package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrDimensionsAreNotConstructed = errs.NewValueIsRequiredError("dimensions must be created via NewDimensions")

// Dimensions are the outer length, width and height of a package in inches.
type Dimensions struct {
	length decimal.Decimal
	width  decimal.Decimal
	height decimal.Decimal
	guard  guard.ConstructorGuard
}

func NewDimensions(length, width, height decimal.Decimal) (Dimensions, error) {
	d := Dimensions{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		positive("length", length),
		positive("width", width),
		positive("height", height),
	); err != nil {
		return Dimensions{}, err
	}

	d.length, d.width, d.height = length, width, height
	return d, nil
}

func (d Dimensions) Validate() error {
	return d.guard.Validate(ErrDimensionsAreNotConstructed)
}

func (d Dimensions) Length() decimal.Decimal { return d.length }
func (d Dimensions) Width() decimal.Decimal  { return d.width }
func (d Dimensions) Height() decimal.Decimal { return d.height }

// Volume returns cubic inches.
func (d Dimensions) Volume() decimal.Decimal {
	return d.length.Mul(d.width).Mul(d.height)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%sx%sx%s in", d.length, d.width, d.height)
}

func positive(name string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%s is not greater than 0", v))
	}
	return nil
}
