package packaging

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// StationType is the kind of packing station a packaging type is handled on.
type StationType string

const (
	BoxingMachine StationType = "boxing_machine"
	PolyBag       StationType = "poly_bag"
	HandPack      StationType = "hand_pack"
)

func ParseStationType(s string) (StationType, error) {
	t := StationType(s)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t StationType) Validate() error {
	switch t {
	case BoxingMachine, PolyBag, HandPack:
		return nil
	}
	return errs.NewValueIsInvalidErrorWithCause("station type", fmt.Errorf("%q is not a valid station type", string(t)))
}

func (t StationType) String() string { return string(t) }
