package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Domain counters registered on the default registry, served by the
// Prometheus handler when metrics are enabled.
var (
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restro_orders_placed_total",
		Help: "Orders accepted into the ledger.",
	})

	StatusUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restro_order_status_updates_total",
		Help: "Successful order status transitions.",
	})

	PaymentVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "restro_payment_verifications_total",
		Help: "Payment signature verification outcomes.",
	}, []string{"result"})

	EventSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "restro_event_subscribers",
		Help: "Currently connected event stream subscribers.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "restro_events_dropped_total",
		Help: "Events dropped because a subscriber buffer was full.",
	})
)
