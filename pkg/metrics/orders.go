package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order lifecycle events.
type OrderMetrics struct {
	created          *prometheus.CounterVec
	settled          prometheus.Counter
	cutoffRejections *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, by order type.",
	}, []string{"order_type"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payments_settled_total",
		Help: "Payments verified and settled.",
	})
	cutoffRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cutoff_rejections_total",
		Help: "Orders rejected because the day's cutoff had passed.",
	}, []string{"order_type"})
	reg.MustRegister(created, settled, cutoffRejections)
	return &OrderMetrics{
		created:          created,
		settled:          settled,
		cutoffRejections: cutoffRejections,
	}
}

// IncCreated increments the created counter for the given order type.
func (o *OrderMetrics) IncCreated(orderType string) {
	if o == nil || o.created == nil {
		return
	}
	o.created.WithLabelValues(normalizeLabel(orderType)).Inc()
}

// IncSettled increments the settled payments counter.
func (o *OrderMetrics) IncSettled() {
	if o == nil || o.settled == nil {
		return
	}
	o.settled.Inc()
}

// IncCutoffRejection increments the cutoff rejection counter.
func (o *OrderMetrics) IncCutoffRejection(orderType string) {
	if o == nil || o.cutoffRejections == nil {
		return
	}
	o.cutoffRejections.WithLabelValues(normalizeLabel(orderType)).Inc()
}
