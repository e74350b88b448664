package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var latencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// Metrics holds the registry, the collectors and the HTTP server that exposes
// them.
type Metrics struct {
	Server *http.Server

	// Registry is a private registry; nothing is registered globally.
	Registry *prometheus.Registry

	namespace string

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	searchRequests *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	searchResults  prometheus.Histogram

	filterAnalysisFailures prometheus.Counter

	ingestTotal    *prometheus.CounterVec
	ingestDuration *prometheus.HistogramVec

	embeddingRequests *prometheus.CounterVec
	embeddingDuration *prometheus.HistogramVec

	vibeGenerations *prometheus.CounterVec
	vibeDuration    prometheus.Histogram

	storeOperations *prometheus.CounterVec
	storeDuration   *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec

	operations *prometheus.CounterVec
}

// NewMetrics builds the collectors, registers them under the service label
// and prepares (but does not start) the /metrics server.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	ns := cfg.Namespace
	m := &Metrics{
		Registry:  registry,
		namespace: ns,
	}

	m.httpRequests = createCounterVec(ns, "http_requests_total", "Processed HTTP requests", []string{"method", "route", "status"})
	m.httpRequestDuration = createHistogramVec(ns, "http_request_duration_seconds", "HTTP request latency", []string{"method", "route"}, latencyBuckets)

	m.searchRequests = createCounterVec(ns, "search_requests_total", "Search requests by mode and status", []string{"mode", "status"})
	m.searchDuration = createHistogramVec(ns, "search_duration_seconds", "Search latency including embedding", []string{"mode"}, latencyBuckets)
	m.searchResults = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "search_results",
		Help:      "Number of results returned per search",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 200},
	})

	m.filterAnalysisFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "filter_analysis_failures_total",
		Help:      "Filter impact diagnostics omitted after a store failure",
	})

	m.ingestTotal = createCounterVec(ns, "ingest_total", "Ingested records by prior state and outcome", []string{"state", "outcome"})
	m.ingestDuration = createHistogramVec(ns, "ingest_duration_seconds", "Ingest latency by prior state", []string{"state"}, latencyBuckets)

	m.embeddingRequests = createCounterVec(ns, "embedding_requests_total", "Embedding calls by vector field", []string{"field", "kind", "status"})
	m.embeddingDuration = createHistogramVec(ns, "embedding_duration_seconds", "Embedding latency by vector field", []string{"field"}, latencyBuckets)

	m.vibeGenerations = createCounterVec(ns, "vibe_generations_total", "Vibe report generations", []string{"status"})
	m.vibeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "vibe_generation_duration_seconds",
		Help:      "Vibe report generation latency",
		Buckets:   []float64{.5, 1, 2.5, 5, 10, 20, 30, 60},
	})

	m.storeOperations = createCounterVec(ns, "store_operations_total", "Vector store operations", []string{"operation", "status"})
	m.storeDuration = createHistogramVec(ns, "store_operation_duration_seconds", "Vector store latency", []string{"operation"}, latencyBuckets)

	m.cacheLookups = createCounterVec(ns, "query_cache_lookups_total", "Parsed-query cache lookups", []string{"result"})

	m.operations = createCounterVec(ns, "operations_total", "Operations reported by components without a dedicated collector", []string{"component", "operation", "status"})

	wrappedRegistry.MustRegister(
		m.httpRequests,
		m.httpRequestDuration,
		m.searchRequests,
		m.searchDuration,
		m.searchResults,
		m.filterAnalysisFailures,
		m.ingestTotal,
		m.ingestDuration,
		m.embeddingRequests,
		m.embeddingDuration,
		m.vibeGenerations,
		m.vibeDuration,
		m.storeOperations,
		m.storeDuration,
		m.cacheLookups,
		m.operations,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	addr := cfg.Address
	if addr == "" {
		addr = DefaultMetricsAddress
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	m.Server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return m
}
