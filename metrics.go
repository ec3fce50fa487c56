package routetree

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics contains Prometheus metrics for tree registration and
// resolution.
type metrics struct {
	lookupHits      prometheus.Counter
	lookupMisses    prometheus.Counter
	patternsAdded   prometheus.Counter
	patternsRemoved prometheus.Counter
}

var (
	metricsInstance *metrics
	metricsOnce     sync.Once
)

// treeMetrics returns the singleton metrics instance.
func treeMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			lookupHits: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routetree",
					Subsystem: "tree",
					Name:      "lookup_hits_total",
					Help:      "Total number of lookups that resolved to a match",
				},
			),
			lookupMisses: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routetree",
					Subsystem: "tree",
					Name:      "lookup_misses_total",
					Help:      "Total number of lookups with no matching pattern",
				},
			),
			patternsAdded: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routetree",
					Subsystem: "tree",
					Name:      "patterns_added_total",
					Help:      "Total number of pattern registrations",
				},
			),
			patternsRemoved: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routetree",
					Subsystem: "tree",
					Name:      "patterns_removed_total",
					Help:      "Total number of pattern removals",
				},
			),
		}
	})
	return metricsInstance
}
