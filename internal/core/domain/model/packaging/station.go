package packaging

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrStationIsNotConstructed = errors.New("Station must be created via NewStation")

// Station is a physical work station from the station registry.
type Station struct {
	id            kernel.UUID
	name          string
	stationType   StationType
	active        bool
	maxOrders     int
	isConstructed bool
}

// NewStation creates a station. A maxOrders of 0 means the configured default
// session size applies.
func NewStation(id kernel.UUID, name string, stationType StationType, active bool, maxOrders int) (*Station, error) {
	var errList []error
	if strings.TrimSpace(name) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("name"))
	}
	if maxOrders < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("max orders", fmt.Errorf("%d is negative", maxOrders)))
	}
	if err := errors.Join(append(errList, id.Validate(), stationType.Validate())...); err != nil {
		return nil, err
	}

	return &Station{
		id:            id,
		name:          name,
		stationType:   stationType,
		active:        active,
		maxOrders:     maxOrders,
		isConstructed: true,
	}, nil
}

func (s *Station) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrStationIsNotConstructed
	}
	return nil
}

func (s *Station) ID() kernel.UUID          { return s.id }
func (s *Station) Name() string             { return s.name }
func (s *Station) StationType() StationType { return s.stationType }
func (s *Station) IsActive() bool           { return s.active }
func (s *Station) MaxOrders() int           { return s.maxOrders }

// Capacity returns the session size for this station, falling back to defaultMax.
func (s *Station) Capacity(defaultMax int) int {
	if s.maxOrders > 0 {
		return s.maxOrders
	}
	return defaultMax
}
