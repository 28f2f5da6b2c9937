package kernel

import (
	"errors"
	"fmt"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// WeightUnit is the unit a catalog weight was recorded in.
type WeightUnit string

const (
	Ounce    WeightUnit = "oz"
	Pound    WeightUnit = "lb"
	Gram     WeightUnit = "g"
	Kilogram WeightUnit = "kg"
)

// weightScale is the number of decimal places kept for normalized weights.
const weightScale = 4

var ErrWeightIsNotConstructed = errs.NewValueIsRequiredError("weight must be created via NewWeight")

var ouncesPerUnit = map[WeightUnit]decimal.Decimal{
	Ounce:    decimal.NewFromInt(1),
	Pound:    decimal.NewFromInt(16),
	Gram:     decimal.RequireFromString("0.03527396195"),
	Kilogram: decimal.RequireFromString("35.27396195"),
}

// ParseWeightUnit accepts the unit codes used by the catalog.
func ParseWeightUnit(s string) (WeightUnit, error) {
	unit := WeightUnit(s)
	if _, ok := ouncesPerUnit[unit]; !ok {
		return "", errs.NewValueIsInvalidErrorWithCause("weight unit", fmt.Errorf("%q is not a known unit", s))
	}
	return unit, nil
}

// Weight is a strictly positive mass. A product with no usable weight has no
// Weight at all rather than a zero one.
type Weight struct {
	value decimal.Decimal
	unit  WeightUnit
	guard guard.ConstructorGuard
}

func NewWeight(value decimal.Decimal, unit WeightUnit) (Weight, error) {
	w := Weight{guard: guard.NewConstructorGuard()}

	if err := errors.Join(w.setValue(value), w.setUnit(unit)); err != nil {
		return Weight{}, err
	}

	return w, nil
}

func (w Weight) Validate() error {
	return w.guard.Validate(ErrWeightIsNotConstructed)
}

func (w Weight) Value() decimal.Decimal {
	return w.value
}

func (w Weight) Unit() WeightUnit {
	return w.unit
}

// Ounces converts the weight to ounces rounded to four decimal places.
func (w Weight) Ounces() decimal.Decimal {
	return w.value.Mul(ouncesPerUnit[w.unit]).Round(weightScale)
}

func (w Weight) IsEqual(other Weight) bool {
	return w.unit == other.unit && w.value.Equal(other.value)
}

func (w Weight) String() string {
	return fmt.Sprintf("%s %s", w.value.String(), w.unit)
}

func (w *Weight) setValue(value decimal.Decimal) error {
	if !value.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%s is not greater than 0", value))
	}
	w.value = value
	return nil
}

func (w *Weight) setUnit(unit WeightUnit) error {
	if _, ok := ouncesPerUnit[unit]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("weight unit", fmt.Errorf("%q is not a known unit", unit))
	}
	w.unit = unit
	return nil
}
