package packaging_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStationType(t *testing.T) {
	st, err := packaging.ParseStationType("poly_bag")
	require.NoError(t, err)
	assert.Equal(t, packaging.PolyBag, st)

	_, err = packaging.ParseStationType("forklift")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestNewPackagingType(t *testing.T) {
	t.Run("with dimensions", func(t *testing.T) {
		dims, err := kernel.NewDimensions(decimal.NewFromInt(12), decimal.NewFromInt(10), decimal.NewFromInt(4))
		require.NoError(t, err)

		pt, err := packaging.NewPackagingType(kernel.NewUUID(), "Box 12x10x4", packaging.BoxingMachine, &dims)

		require.NoError(t, err)
		require.NoError(t, pt.Validate())
		assert.Equal(t, packaging.BoxingMachine, pt.StationType())
		assert.NotNil(t, pt.Dimensions())
	})

	t.Run("bag without dimensions", func(t *testing.T) {
		pt, err := packaging.NewPackagingType(kernel.NewUUID(), "Poly 10x13", packaging.PolyBag, nil)

		require.NoError(t, err)
		assert.Nil(t, pt.Dimensions())
	})

	t.Run("rejects missing name and bad station type", func(t *testing.T) {
		pt, err := packaging.NewPackagingType(kernel.NewUUID(), "", "crate", nil)

		require.Error(t, err)
		assert.Nil(t, pt)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStation_Capacity(t *testing.T) {
	withMax, err := packaging.NewStation(kernel.NewUUID(), "Boxer 1", packaging.BoxingMachine, true, 25)
	require.NoError(t, err)
	withoutMax, err := packaging.NewStation(kernel.NewUUID(), "Hand 1", packaging.HandPack, true, 0)
	require.NoError(t, err)

	assert.Equal(t, 25, withMax.Capacity(40))
	assert.Equal(t, 40, withoutMax.Capacity(40))

	_, err = packaging.NewStation(kernel.NewUUID(), "Bad", packaging.HandPack, true, -1)
	require.Error(t, err)
}
