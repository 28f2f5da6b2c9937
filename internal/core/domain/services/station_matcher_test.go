package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func station(t *testing.T, name string, st packaging.StationType, active bool, maxOrders int) *packaging.Station {
	t.Helper()
	s, err := packaging.NewStation(kernel.NewUUID(), name, st, active, maxOrders)
	require.NoError(t, err)
	return s
}

func TestStationMatcher_Match(t *testing.T) {
	matcher := services.NewStationMatcher()
	boxB := station(t, "Boxer B", packaging.BoxingMachine, true, 25)
	boxA := station(t, "Boxer A", packaging.BoxingMachine, true, 25)
	boxInactive := station(t, "Boxer 0", packaging.BoxingMachine, false, 25)
	bag := station(t, "Bagger", packaging.PolyBag, true, 0)

	t.Run("first active station by name", func(t *testing.T) {
		got := matcher.Match(packaging.BoxingMachine, []*packaging.Station{boxB, boxInactive, bag, boxA})

		require.NotNil(t, got)
		assert.True(t, got.ID().IsEqual(boxA.ID()))
	})

	t.Run("no station of that type", func(t *testing.T) {
		got := matcher.Match(packaging.HandPack, []*packaging.Station{boxA, bag})

		assert.Nil(t, got)
	})

	t.Run("only inactive stations", func(t *testing.T) {
		got := matcher.Match(packaging.BoxingMachine, []*packaging.Station{boxInactive})

		assert.Nil(t, got)
	})
}
