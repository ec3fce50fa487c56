package specfile

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics contains Prometheus metrics for spec file reloads.
type metrics struct {
	reloads           prometheus.Counter
	reloadFailures    prometheus.Counter
	publishedPatterns prometheus.Gauge
}

var (
	metricsInstance *metrics
	metricsOnce     sync.Once
)

// specMetrics returns the singleton spec file metrics instance.
func specMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			reloads: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routetree",
					Subsystem: "specfile",
					Name:      "reloads_total",
					Help:      "Total number of successful spec file reloads",
				},
			),
			reloadFailures: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routetree",
					Subsystem: "specfile",
					Name:      "reload_failures_total",
					Help:      "Total number of failed spec file reloads",
				},
			),
			publishedPatterns: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "routetree",
					Subsystem: "specfile",
					Name:      "published_patterns",
					Help:      "Number of patterns in the currently published tree",
				},
			),
		}
	})
	return metricsInstance
}
