package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry содержит все метрики сервиса
type Registry struct {
	// HTTP
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Конвейер
	PipelineRunsTotal     *prometheus.CounterVec
	PipelineStageDuration *prometheus.HistogramVec
	PipelineFallbackTotal prometheus.Counter
	DisplayedFlows        prometheus.Gauge
	SourceRows            *prometheus.GaugeVec
	CacheRequestsTotal    *prometheus.CounterVec

	// Веб-сокеты
	WebsocketSessions prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry возвращает глобальный реестр метрик
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry создает реестр со всеми метриками
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{registry: reg}
	r.initHTTPMetrics()
	r.initPipelineMetrics()
	return r
}

// GetPrometheusRegistry возвращает реестр Prometheus
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

func (r *Registry) initHTTPMetrics() {
	factory := promauto.With(r.registry)

	r.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowmap_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowmap_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "flowmap_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	r.HTTPResponseSizeBytes = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowmap_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)

	r.WebsocketSessions = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "flowmap_websocket_sessions",
			Help: "Number of connected dashboard sessions",
		},
	)
}

func (r *Registry) initPipelineMetrics() {
	factory := promauto.With(r.registry)

	r.PipelineRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowmap_pipeline_runs_total",
			Help: "Pipeline runs by final status",
		},
		[]string{"status"},
	)

	r.PipelineStageDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowmap_pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"stage"},
	)

	r.PipelineFallbackTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "flowmap_pipeline_fallback_total",
			Help: "Runs that used the sector-local ranking",
		},
	)

	r.DisplayedFlows = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "flowmap_displayed_flows",
			Help: "Number of flows in the latest render",
		},
	)

	r.SourceRows = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowmap_source_rows",
			Help: "Rows in the loaded source tables",
		},
		[]string{"table"},
	)

	r.CacheRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowmap_cache_requests_total",
			Help: "Memoization cache lookups",
		},
		[]string{"cache", "result"},
	)
}
