package services

import (
	"cmp"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/packaging"
)

// StationMatcher picks the station a packaging decision is routed to.
type StationMatcher struct{}

func NewStationMatcher() StationMatcher {
	return StationMatcher{}
}

// Match returns the first active station of stationType ordered by name (ties
// broken by id), or nil when no active station handles that type. A missing
// station is a normal outcome that leaves the shipment in needs_station.
func (StationMatcher) Match(stationType packaging.StationType, stations []*packaging.Station) *packaging.Station {
	var candidates []*packaging.Station
	for _, s := range stations {
		if s.Validate() != nil || !s.IsActive() || s.StationType() != stationType {
			continue
		}
		candidates = append(candidates, s)
	}
	if len(candidates) == 0 {
		return nil
	}

	slices.SortFunc(candidates, compareStations)
	return candidates[0]
}

func compareStations(a, b *packaging.Station) int {
	return cmp.Or(
		strings.Compare(a.Name(), b.Name()),
		a.ID().Compare(b.ID()),
	)
}
