package services

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
)

// ErrInvalidDefaultCapacity is returned when the planner has no usable session size.
var ErrInvalidDefaultCapacity = errors.New("default session capacity must be greater than 0")

// SessionCandidate is a ready_to_session shipment considered for batching.
type SessionCandidate struct {
	ShipmentID  kernel.UUID
	OrderNumber string
	StationID   kernel.UUID
	CreatedAt   time.Time
}

// PlannedSpot is one shipment placed at a 1-based spot of a planned session.
type PlannedSpot struct {
	ShipmentID  kernel.UUID
	OrderNumber string
	Spot        int
}

// PlannedSession is a session the builder intends to create.
type PlannedSession struct {
	Station   *packaging.Station
	MaxOrders int
	Shipments []PlannedSpot
}

// SessionPlanner is a domain service that greedily batches ready shipments
// into capacity-bounded sessions per station.
//
// Business rules:
//   - Shipments are grouped by assigned station; stations are visited by name
//   - Within a station, shipments are taken oldest first (order number breaks ties)
//   - Each session holds at most the station's maxOrders, or the default when unset
//   - Every session except the last one of a station is full
//   - Shipments whose station is unknown or inactive are returned as unplaceable
//
// Example:
//
//	planner, _ := services.NewSessionPlanner(40)
//	plans, unplaceable := planner.Plan(candidates, stations)
//	// 60 shipments for a 25-order station -> sessions of 25, 25 and 10
type SessionPlanner struct {
	defaultMaxOrders int
}

func NewSessionPlanner(defaultMaxOrders int) (SessionPlanner, error) {
	if defaultMaxOrders <= 0 {
		return SessionPlanner{}, ErrInvalidDefaultCapacity
	}
	return SessionPlanner{defaultMaxOrders: defaultMaxOrders}, nil
}

// Plan is pure: it reads only its arguments, so a dry run and a real build
// over the same inputs produce the same plan.
func (p SessionPlanner) Plan(candidates []SessionCandidate, stations []*packaging.Station) ([]PlannedSession, []SessionCandidate) {
	byStation := make(map[kernel.UUID]*packaging.Station, len(stations))
	for _, s := range stations {
		if s.Validate() == nil && s.IsActive() {
			byStation[s.ID()] = s
		}
	}

	groups := make(map[kernel.UUID][]SessionCandidate)
	var unplaceable []SessionCandidate
	for _, c := range candidates {
		if _, ok := byStation[c.StationID]; !ok {
			unplaceable = append(unplaceable, c)
			continue
		}
		groups[c.StationID] = append(groups[c.StationID], c)
	}

	ordered := make([]*packaging.Station, 0, len(groups))
	for id := range groups {
		ordered = append(ordered, byStation[id])
	}
	slices.SortFunc(ordered, compareStations)

	var plans []PlannedSession
	for _, station := range ordered {
		members := groups[station.ID()]
		slices.SortFunc(members, compareCandidates)

		capacity := station.Capacity(p.defaultMaxOrders)
		for chunk := range slices.Chunk(members, capacity) {
			plan := PlannedSession{
				Station:   station,
				MaxOrders: capacity,
				Shipments: make([]PlannedSpot, len(chunk)),
			}
			for i, c := range chunk {
				plan.Shipments[i] = PlannedSpot{ShipmentID: c.ShipmentID, OrderNumber: c.OrderNumber, Spot: i + 1}
			}
			plans = append(plans, plan)
		}
	}

	return plans, unplaceable
}

func compareCandidates(a, b SessionCandidate) int {
	return cmp.Or(
		a.CreatedAt.Compare(b.CreatedAt),
		strings.Compare(a.OrderNumber, b.OrderNumber),
	)
}
