package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCategorizeSkuCommandHandler_Cascade(t *testing.T) {
	ctx := t.Context()
	mugs := kernel.NewUUID()
	mugWeight := ounces(t, 14)

	onlyMugs := rawShipment(t, "5001", lineItem(t, 1, "MUG", 2))
	mixed := rawShipment(t, "5002", lineItem(t, 1, "MUG", 1), lineItem(t, 2, "POSTER", 1))
	gone := kernel.NewUUID()

	rs := newRepoSet()
	cat := new(MockCatalog)
	writer := new(MockCatalogWriter)
	invalidator := new(MockCatalogInvalidator)

	writer.On("AssignCollection", ctx, "MUG", &mugs).Return(nil).Once()
	invalidator.On("Invalidate", ctx, []string{"MUG"}).Return(nil).Once()
	rs.shipments.On("FindEditableIDsBySKU", ctx, "MUG").Return([]kernel.UUID{onlyMugs.ID(), mixed.ID(), gone}, nil).Once()

	rs.shipments.On("Get", mock.Anything, onlyMugs.ID()).Return(onlyMugs, nil).Twice()
	rs.shipments.On("Get", mock.Anything, mixed.ID()).Return(mixed, nil).Twice()
	rs.shipments.On("Get", mock.Anything, gone).Return(nil, errs.NewObjectNotFoundError("shipmentId", gone.String())).Once()
	rs.shipments.On("Update", mock.Anything, onlyMugs).Return(nil).Twice()
	rs.shipments.On("Update", mock.Anything, mixed).Return(nil).Twice()

	cat.On("Explode", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	cat.On("ParentSKU", mock.Anything, mock.Anything).Return("", false, nil)
	cat.On("Lookup", mock.Anything, "MUG").Return(catalog.Product{SKU: "MUG", CollectionID: &mugs, Weight: mugWeight}, nil)
	cat.On("Lookup", mock.Anything, "POSTER").Return(catalog.Product{SKU: "POSTER"}, nil)

	stored := storedFingerprint(t, map[kernel.UUID]int{mugs: 2})
	rs.fingerprints.On("GetByHash", mock.Anything, stored.Hash()).
		Return(nil, errs.NewObjectNotFoundError("hash", stored.Hash())).Once()
	rs.fingerprints.On("AddIfAbsent", mock.Anything, mock.AnythingOfType("*fingerprint.Fingerprint")).Return(stored, nil).Once()
	rs.fingerprints.On("GetModel", mock.Anything, stored.ID()).
		Return(nil, errs.NewObjectNotFoundError("fingerprintId", stored.ID().String())).Once()

	cmd, err := commands.NewCategorizeSkuCommand("MUG", &mugs)
	require.NoError(t, err)

	handler := commands.NewCategorizeSkuCommandHandler(rs.factory, cat, writer, invalidator, 1, zap.NewNop())
	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 3, result.AffectedShipments)
	assert.Equal(t, 1, result.Completed)
	assert.Equal(t, 1, result.StillPending)
	require.Len(t, result.Errors, 1)
	assert.True(t, result.Errors[0].ShipmentID.IsEqual(gone))
	assert.True(t, errors.Is(result.Errors[0].Err, errs.ErrObjectNotFound))

	assert.Equal(t, shipment.FingerprintComplete, onlyMugs.FingerprintStatus())
	assert.True(t, onlyMugs.FingerprintID().IsEqual(stored.ID()))
	assert.Equal(t, lifecycle.PhaseNeedsPackaging, onlyMugs.Lifecycle().Phase)
	assert.Equal(t, shipment.FingerprintPendingCategorization, mixed.FingerprintStatus())
	assert.Equal(t, lifecycle.PhasePendingCategorization, mixed.Lifecycle().Phase)

	rs.assertExpectations(t)
	writer.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestCategorizeSkuCommandHandler_RemovalDropsCompleteShipment(t *testing.T) {
	ctx := t.Context()
	oldFingerprint := kernel.NewUUID()
	pt := kernel.NewUUID()

	held, err := shipment.RestoreShipment(shipment.Snapshot{
		ID:                kernel.NewUUID(),
		OrderNumber:       "6001",
		LineItems:         []shipment.LineItem{lineItem(t, 1, "MUG", 2)},
		FingerprintID:     &oldFingerprint,
		FingerprintStatus: shipment.FingerprintComplete,
		PackagingTypeID:   &pt,
		Lifecycle:         lifecycle.State{Phase: lifecycle.PhaseNeedsStation},
		CreatedAt:         time.Now(),
	})
	require.NoError(t, err)
	untouched := readyShipment(t, "6002", kernel.NewUUID())

	rs := newRepoSet()
	cat := new(MockCatalog)
	writer := new(MockCatalogWriter)
	invalidator := new(MockCatalogInvalidator)

	writer.On("AssignCollection", ctx, "MUG", (*kernel.UUID)(nil)).Return(nil).Once()
	invalidator.On("Invalidate", ctx, []string{"MUG"}).Return(nil).Once()
	rs.shipments.On("FindEditableIDsBySKU", ctx, "MUG").Return([]kernel.UUID{held.ID()}, nil).Once()
	rs.shipments.On("Get", mock.Anything, held.ID()).Return(held, nil).Twice()
	rs.shipments.On("Update", mock.Anything, held).Return(nil).Twice()

	cat.On("Explode", mock.Anything, "6001", "MUG").Return(nil, nil)
	cat.On("ParentSKU", mock.Anything, "MUG").Return("", false, nil)
	cat.On("Lookup", mock.Anything, "MUG").Return(catalog.Product{SKU: "MUG", Weight: ounces(t, 14)}, nil)

	cmd, err := commands.NewCategorizeSkuCommand("MUG", nil)
	require.NoError(t, err)

	result, err := commands.NewCategorizeSkuCommandHandler(rs.factory, cat, writer, invalidator, 2, zap.NewNop()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, 1, result.AffectedShipments)
	assert.Equal(t, 1, result.StillPending)
	assert.Empty(t, result.Errors)

	assert.Equal(t, shipment.FingerprintPendingCategorization, held.FingerprintStatus())
	assert.Nil(t, held.FingerprintID())
	assert.Nil(t, held.PackagingTypeID())
	assert.Equal(t, lifecycle.PhasePendingCategorization, held.Lifecycle().Phase)

	assert.Equal(t, shipment.FingerprintComplete, untouched.FingerprintStatus())
	assert.Equal(t, lifecycle.PhaseReadyToSession, untouched.Lifecycle().Phase)
	rs.shipments.AssertNotCalled(t, "Get", mock.Anything, untouched.ID())
	rs.shipments.AssertNotCalled(t, "Update", mock.Anything, untouched)
	rs.fingerprints.AssertNotCalled(t, "GetByHash", mock.Anything, mock.Anything)

	rs.assertExpectations(t)
	writer.AssertExpectations(t)
	invalidator.AssertExpectations(t)
}

func TestCategorizeSkuCommandHandler_InvalidationFails(t *testing.T) {
	ctx := t.Context()
	rs := newRepoSet()
	writer := new(MockCatalogWriter)
	invalidator := new(MockCatalogInvalidator)
	writer.On("AssignCollection", ctx, "MUG", (*kernel.UUID)(nil)).Return(nil).Once()
	invalidator.On("Invalidate", ctx, []string{"MUG"}).Return(errors.New("redis down")).Once()

	cmd, err := commands.NewCategorizeSkuCommand("MUG", nil)
	require.NoError(t, err)

	_, err = commands.NewCategorizeSkuCommandHandler(rs.factory, new(MockCatalog), writer, invalidator, 2, zap.NewNop()).Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis down")
	rs.shipments.AssertNotCalled(t, "FindEditableIDsBySKU", mock.Anything, mock.Anything)
}

func TestCategorizeSkuCommandHandler_WriterFails(t *testing.T) {
	ctx := t.Context()
	rs := newRepoSet()
	writer := new(MockCatalogWriter)
	invalidator := new(MockCatalogInvalidator)
	writer.On("AssignCollection", ctx, "MUG", (*kernel.UUID)(nil)).Return(errors.New("db down")).Once()

	cmd, err := commands.NewCategorizeSkuCommand("MUG", nil)
	require.NoError(t, err)

	handler := commands.NewCategorizeSkuCommandHandler(rs.factory, new(MockCatalog), writer, invalidator, 2, zap.NewNop())
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "db down")
	invalidator.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	rs.shipments.AssertNotCalled(t, "FindEditableIDsBySKU", mock.Anything, mock.Anything)
}

func TestNewCategorizeSkuCommand(t *testing.T) {
	_, err := commands.NewCategorizeSkuCommand("  ", nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	cmd, err := commands.NewCategorizeSkuCommand("MUG", nil)
	require.NoError(t, err)
	assert.Nil(t, cmd.CollectionID())
	assert.NoError(t, cmd.Validate())

	assert.ErrorIs(t, commands.CategorizeSkuCommand{}.Validate(), commands.ErrCategorizeSkuCommandIsNotConstructed)
}
