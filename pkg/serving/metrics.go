package serving

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"SystemMonitor/pkg/metrics"
)

const namespace = "sysmon"

// Metrics holds the server's Prometheus collectors. Each instance owns its
// registry so several servers (or tests) can coexist in one process.
type Metrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
	sampleDuration  *prometheus.HistogramVec
	sampleErrors    *prometheus.CounterVec
	systemCPU       prometheus.Gauge
	systemMemory    prometheus.Gauge
	totalProcesses  prometheus.Gauge
	handler         http.Handler
}

// NewMetrics creates and registers the server collectors along with the Go
// runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, .75, 1, 2.5, 5},
		}, []string{"route"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_requests",
			Help:      "HTTP requests currently being served.",
		}),
		sampleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sample_duration_seconds",
			Help:      "Time spent reading the OS per snapshot operation.",
			Buckets:   []float64{.01, .05, .1, .25, .5, .6, .75, 1, 2},
		}, []string{"op"}),
		sampleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_errors_total",
			Help:      "Snapshot operations that failed.",
		}, []string{"op"}),
		systemCPU: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_cpu_percent",
			Help:      "System CPU use from the most recent /stats sample.",
		}),
		systemMemory: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_memory_percent",
			Help:      "System memory use from the most recent /stats sample.",
		}),
		totalProcesses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_processes",
			Help:      "Process count from the most recent /stats sample.",
		}),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.activeRequests,
		m.sampleDuration,
		m.sampleErrors,
		m.systemCPU,
		m.systemMemory,
		m.totalProcesses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
}

func (m *Metrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, d time.Duration) {
	m.requestsTotal.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveSample records how long a snapshot operation took and whether it
// failed.
func (m *Metrics) ObserveSample(op string, d time.Duration, err error) {
	m.sampleDuration.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		m.sampleErrors.WithLabelValues(op).Inc()
	}
}

// ObserveSnapshot publishes the latest system snapshot as gauges.
func (m *Metrics) ObserveSnapshot(s metrics.SystemSnapshot) {
	m.systemCPU.Set(s.CPUPercent)
	m.systemMemory.Set(s.MemoryPercent)
	m.totalProcesses.Set(float64(s.TotalProcesses))
}
