package metrics

import "github.com/prometheus/client_golang/prometheus"

// OrderMetrics counts order lifecycle activity.
type OrderMetrics struct {
	transitions *prometheus.CounterVec
	outOfStock  prometheus.Counter
}

// NewOrderMetrics registers the lifecycle counters on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order state transitions by command.",
	}, []string{"command"})
	outOfStock := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_out_of_stock_total",
		Help: "Order creations rejected for insufficient stock.",
	})
	reg.MustRegister(transitions, outOfStock)
	return &OrderMetrics{transitions: transitions, outOfStock: outOfStock}
}

// IncTransition counts one applied lifecycle command.
func (o *OrderMetrics) IncTransition(command string) {
	if o == nil || o.transitions == nil {
		return
	}
	o.transitions.WithLabelValues(command).Inc()
}

// IncOutOfStock counts one stock-rejected creation attempt.
func (o *OrderMetrics) IncOutOfStock() {
	if o == nil || o.outOfStock == nil {
		return
	}
	o.outOfStock.Inc()
}
