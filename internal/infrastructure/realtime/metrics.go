package realtime

import "github.com/prometheus/client_golang/prometheus"

// Push kinds and results used as metric labels.
const (
	kindUnicast   = "unicast"
	kindBroadcast = "broadcast"

	resultDelivered = "delivered"
	resultOffline   = "offline"
	resultFailed    = "failed"
)

// Metrics holds the Prometheus collectors for the Registry.
type Metrics struct {
	Connections   prometheus.Gauge
	Pushes        *prometheus.CounterVec
	Registrations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg when non-nil.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "connections",
			Help:      "Users with a registered live connection",
		}),
		Pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "pushes_total",
			Help:      "Push attempts by kind and result",
		}, []string{"kind", "result"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "registrations_total",
			Help:      "Registry mutations by operation",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.Connections, m.Pushes, m.Registrations)
	}
	return m
}
