package metrics

import "github.com/prometheus/client_golang/prometheus"

// Storefront metrics: orders, lifecycle transitions, stock movements.

var (
	// OrdersCreated counts successful checkouts.
	OrdersCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "greenmart",
		Subsystem: "orders",
		Name:      "created_total",
		Help:      "Total orders created through checkout.",
	})

	// OrderTransitions counts status transitions by target status.
	OrderTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenmart",
			Subsystem: "orders",
			Name:      "transitions_total",
			Help:      "Total order status transitions.",
		},
		[]string{"to"}, // "Pending" | "Delivered" | "Cancelled"
	)

	// StockAdjustments counts per-line stock writes by direction.
	StockAdjustments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenmart",
			Subsystem: "stock",
			Name:      "adjustments_total",
			Help:      "Total per-line stock adjustments applied by the order lifecycle.",
		},
		[]string{"direction"}, // "decrement" | "restore"
	)

	// CheckoutFailures counts rejected checkouts by reason.
	CheckoutFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "greenmart",
			Subsystem: "checkout",
			Name:      "failures_total",
			Help:      "Total checkouts rejected, by reason.",
		},
		[]string{"reason"}, // "insufficient_stock" | "server_error"
	)
)

func init() {
	DefaultRegistry.MustRegister(
		OrdersCreated,
		OrderTransitions,
		StockAdjustments,
		CheckoutFailures,
	)
}
