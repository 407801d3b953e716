package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/animequeens/storefront/internal/cart"
)

var cartChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cart_changes_total",
		Help: "Total number of cart state changes by action",
	},
	[]string{"action"},
)

// AttachMetrics counts every cart change by action. Like the Kafka
// producer, it is an independent subscriber to the change event.
func AttachMetrics(m *cart.Manager) func() {
	return m.On(cart.EventChange, func(ch cart.Change) {
		cartChangesTotal.WithLabelValues(ch.Action).Inc()
	})
}
