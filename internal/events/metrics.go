package events

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds Prometheus metrics for the broadcaster
type metrics struct {
	eventCount        *prometheus.CounterVec
	discardedCount    prometheus.Counter
	activeSubscribers prometheus.Gauge
}

// metricsInstance is a singleton instance of metrics
var (
	metricsInstance *metrics
	metricsOnce     sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
)

// newMetrics initializes and registers Prometheus metrics using a singleton
// pattern so repeated broadcaster construction never double-registers.
func newMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			eventCount: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "location_events_total",
				Help: "Total number of bridge events by operation and type",
			}, []string{"operation", "type"}),
			discardedCount: promauto.With(defaultRegistry).NewCounter(prometheus.CounterOpts{
				Name: "location_events_discarded_total",
				Help: "Events published while no subscriber was registered",
			}),
			activeSubscribers: promauto.With(defaultRegistry).NewGauge(prometheus.GaugeOpts{
				Name: "location_event_active_subscribers",
				Help: "Current number of active event subscribers",
			}),
		}
	})
	return metricsInstance
}

// For testing purposes - reset metrics
func resetMetricsForTesting() {
	reg := prometheus.NewRegistry()
	defaultRegistry = reg

	metricsInstance = nil
	metricsOnce = sync.Once{}
}
