// Package metrics provides Prometheus metrics for the fulfillment pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HydrationsTotal counts shipment hydrations by resulting fingerprint status.
	HydrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "pipeline",
			Name:      "hydrations_total",
			Help:      "Total number of shipment hydrations by resulting fingerprint status",
		},
		[]string{"status"},
	)

	// FingerprintsResolvedTotal counts fingerprint resolutions, split by whether a new row was created.
	FingerprintsResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "pipeline",
			Name:      "fingerprints_resolved_total",
			Help:      "Total number of fingerprint resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// PackagingAssignmentsTotal counts packaging assignments to fingerprints.
	PackagingAssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "packaging",
			Name:      "assignments_total",
			Help:      "Total number of fingerprint packaging assignments by station match",
		},
		[]string{"station_matched"},
	)

	// SessionsCreatedTotal counts persisted fulfillment sessions by station type.
	SessionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "sessions",
			Name:      "created_total",
			Help:      "Total number of fulfillment sessions created",
		},
		[]string{"station_type"},
	)

	// SessionShipmentsTotal counts shipments processed by session builds.
	SessionShipmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "sessions",
			Name:      "shipments_total",
			Help:      "Total number of shipments considered by session builds by outcome",
		},
		[]string{"outcome"},
	)

	// LifecycleRepairsTotal counts shipments whose stored lifecycle diverged and was rewritten.
	LifecycleRepairsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "lifecycle",
			Name:      "repairs_total",
			Help:      "Total number of shipments whose stored lifecycle phase was repaired",
		},
	)

	// CatalogCacheLookupsTotal counts catalog cache lookups by result.
	CatalogCacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "catalog_cache",
			Name:      "lookups_total",
			Help:      "Total number of catalog cache lookups by result",
		},
		[]string{"result"},
	)

	// LifecycleEventsDeliveredTotal counts lifecycle messages the broker accepted or rejected.
	LifecycleEventsDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fulfillment",
			Subsystem: "lifecycle",
			Name:      "events_delivered_total",
			Help:      "Total number of lifecycle events handed to Kafka by delivery outcome",
		},
		[]string{"outcome"},
	)
)
