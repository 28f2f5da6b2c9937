package shipment

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// LineItem is a raw order line as supplied by order ingest.
type LineItem struct {
	position int
	sku      string
	quantity int
}

func NewLineItem(position int, sku string, quantity int) (LineItem, error) {
	var errList []error
	if position < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("position", fmt.Errorf("%d is negative", position)))
	}
	if strings.TrimSpace(sku) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("sku"))
	}
	if quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity)))
	}
	if err := errors.Join(errList...); err != nil {
		return LineItem{}, err
	}

	return LineItem{position: position, sku: sku, quantity: quantity}, nil
}

func (l LineItem) Position() int { return l.position }
func (l LineItem) SKU() string   { return l.sku }
func (l LineItem) Quantity() int { return l.quantity }
