package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/fingerprint"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/packaging"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// shipmentPipeline holds the hydrate -> fingerprint -> packaging steps shared by
// every command that rebuilds a shipment. It never begins or commits a
// transaction; callers pass the unit of work they own.
type shipmentPipeline struct {
	catalog ports.Catalog
	engine  services.FingerprintEngine
	matcher services.StationMatcher
	now     func() time.Time
}

func newShipmentPipeline(catalog ports.Catalog) shipmentPipeline {
	return shipmentPipeline{
		catalog: catalog,
		engine:  services.NewFingerprintEngine(),
		matcher: services.NewStationMatcher(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type unit struct {
	sku       string
	quantity  int
	kit       bool
	parentSKU string
}

// hydrate rebuilds the QC items of s from its line items and reports how many
// items it produced.
func (p shipmentPipeline) hydrate(ctx context.Context, s *shipment.Shipment) (int, error) {
	if !s.IsEditable() {
		return 0, shipment.ErrShipmentIsNotEditable
	}

	units, err := p.expand(ctx, s)
	if err != nil {
		return 0, err
	}

	items := make([]shipment.QcItem, 0, len(units))
	for _, u := range units {
		product, err := p.catalog.Lookup(ctx, u.sku)
		if err != nil {
			return 0, err
		}
		if product.Excluded {
			continue
		}

		item, err := shipment.NewQcItem(s.ID(), len(items), shipment.QcItemSpec{
			SKU:            u.sku,
			Quantity:       u.quantity,
			Weight:         product.Weight,
			Category:       product.Category,
			CollectionID:   product.CollectionID,
			IsKitComponent: u.kit,
			ParentSKU:      u.parentSKU,
		})
		if err != nil {
			return 0, err
		}
		items = append(items, item)
	}

	s.ReplaceQcItems(items)
	return len(items), nil
}

// expand turns line items into canonical units. Kit component quantities come
// pre-multiplied by the ordered quantity.
func (p shipmentPipeline) expand(ctx context.Context, s *shipment.Shipment) ([]unit, error) {
	var units []unit
	for _, li := range s.LineItems() {
		components, err := p.catalog.Explode(ctx, s.OrderNumber(), li.SKU())
		if err != nil {
			return nil, err
		}
		if len(components) > 0 {
			for _, c := range components {
				units = append(units, unit{sku: c.SKU, quantity: c.Quantity, kit: true, parentSKU: li.SKU()})
			}
			continue
		}

		sku := li.SKU()
		parent, ok, err := p.catalog.ParentSKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if ok {
			sku = parent
		}
		units = append(units, unit{sku: sku, quantity: li.Quantity()})
	}
	return units, nil
}

// fingerprint classifies the current QC items, resolves the shared fingerprint
// row and applies its packaging model when one exists.
func (p shipmentPipeline) fingerprint(ctx context.Context, uow UoW, s *shipment.Shipment) error {
	eval, err := p.engine.Evaluate(s.QcItems())
	if err != nil {
		return err
	}

	if eval.Status != shipment.FingerprintComplete {
		if err = s.MarkFingerprintIncomplete(eval.Status); err != nil {
			return err
		}
		s.RecomputeLifecycle()
		return nil
	}

	fp, err := p.resolveFingerprint(ctx, uow.FingerprintRepository(), eval)
	if err != nil {
		return err
	}
	if err = s.CompleteFingerprint(fp.ID()); err != nil {
		return err
	}

	model, err := uow.FingerprintRepository().GetModel(ctx, fp.ID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		s.ClearPackaging()
	case err != nil:
		return err
	default:
		pt, station, err := p.resolveStation(ctx, uow.PackagingRepository(), model.PackagingTypeID())
		if err != nil {
			return err
		}
		if err = s.AssignPackaging(pt.ID(), stationID(station)); err != nil {
			return err
		}
	}

	s.RecomputeLifecycle()
	return nil
}

func (p shipmentPipeline) resolveFingerprint(
	ctx context.Context,
	repo ports.FingerprintRepository,
	eval services.FingerprintEvaluation,
) (*fingerprint.Fingerprint, error) {
	existing, err := repo.GetByHash(ctx, eval.Signature.Hash())
	if err == nil {
		metrics.FingerprintsResolvedTotal.WithLabelValues("existing").Inc()
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	candidate, err := fingerprint.NewFingerprint(kernel.NewUUID(), eval.Signature, eval.TotalWeightOz, p.now())
	if err != nil {
		return nil, err
	}
	stored, err := repo.AddIfAbsent(ctx, candidate)
	if err != nil {
		return nil, err
	}
	metrics.FingerprintsResolvedTotal.WithLabelValues("created").Inc()
	return stored, nil
}

// resolveStation loads a packaging type and the station it routes to. The
// station is nil when no active station handles the packaging type.
func (p shipmentPipeline) resolveStation(
	ctx context.Context,
	repo ports.PackagingRepository,
	packagingTypeID kernel.UUID,
) (*packaging.PackagingType, *packaging.Station, error) {
	pt, err := repo.GetPackagingType(ctx, packagingTypeID)
	if err != nil {
		return nil, nil, err
	}
	stations, err := repo.GetActiveStations(ctx)
	if err != nil {
		return nil, nil, err
	}
	return pt, p.matcher.Match(pt.StationType(), stations), nil
}

func stationID(s *packaging.Station) *kernel.UUID {
	if s == nil {
		return nil
	}
	id := s.ID()
	return &id
}
