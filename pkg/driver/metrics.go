package driver

import (
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// rendererBytes is the process-wide monotonic counter of bytes the
// renderers report having received via Stats events. Exposed for hosts
// that poll it directly; mirrored into the Prometheus counter.
var rendererBytes atomic.Uint64

// RendererBytesTotal returns the total bytes renderers have reported
// receiving since process start.
func RendererBytesTotal() uint64 {
	return rendererBytes.Load()
}

// metrics holds the Prometheus metrics for the driver.
type metrics struct {
	framesSent      prometheus.Counter
	framesReceived  prometheus.Counter
	eventsTotal     *prometheus.CounterVec
	reconnectsTotal prometheus.Counter
	rendererBytes   prometheus.Counter
	connected       prometheus.Gauge
}

// globalMetrics is the singleton metrics instance, registered on the
// default registry the first time a driver is created.
var (
	globalMetrics     *metrics
	globalMetricsOnce sync.Once
)

func driverMetrics() *metrics {
	globalMetricsOnce.Do(func() {
		globalMetrics = initMetrics(prometheus.DefaultRegisterer)
	})
	return globalMetrics
}

func initMetrics(registry prometheus.Registerer) *metrics {
	factory := promauto.With(registry)

	return &metrics{
		framesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "drawbridge",
			Name:      "frames_sent_total",
			Help:      "Total number of command frames sent to renderers",
		}),

		framesReceived: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "drawbridge",
			Name:      "frames_received_total",
			Help:      "Total number of event frames received from renderers",
		}),

		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "drawbridge",
			Name:      "events_total",
			Help:      "Total number of renderer events processed, by type",
		}, []string{"type"}),

		reconnectsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "drawbridge",
			Name:      "reconnects_total",
			Help:      "Total number of transport reconnect attempts",
		}),

		rendererBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "drawbridge",
			Name:      "renderer_bytes_total",
			Help:      "Total bytes renderers report having received",
		}),

		connected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "drawbridge",
			Name:      "connected",
			Help:      "1 while the renderer transport is up",
		}),
	}
}
