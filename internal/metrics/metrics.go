package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ShipmentsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_shipments_created_total",
		Help: "Total number of shipments successfully created.",
	})

	TransitionsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_transitions_applied_total",
		Help: "Total number of status transitions actually applied.",
	},
		[]string{"target_status"},
	)

	TransitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_transitions_rejected_total",
		Help: "Total number of transition requests rejected without side effects.",
	},
		[]string{"reason"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_notifications_sent_total",
		Help: "Total number of notifications handed to the message channel.",
	},
		[]string{"recipient_role"},
	)

	NotificationsDedupedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "delivery_notifications_deduped_total",
		Help: "Total number of sends skipped because the ledger tuple already existed.",
	})

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "delivery_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ShipmentCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "delivery_shipment_cache_items",
		Help: "Current number of items in the shipment cache.",
	})
)
