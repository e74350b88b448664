package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/verona-ai/profilesearch/v1/observability"
)

// MetricsCollector is the contract the HTTP layer and the command-line tools
// depend on. *Metrics implements it.
type MetricsCollector interface {
	observability.Observer

	RecordHTTPRequest(method, route string, code int, start time.Time)
	RecordSearch(mode string, results int, d time.Duration, err error)
	RecordIngest(state, outcome string, d time.Duration)

	CreateCounter(name, help string, labels []string) *prometheus.CounterVec
	CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec
}

var _ MetricsCollector = (*Metrics)(nil)
