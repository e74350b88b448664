package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

func status(err error) string {
	if err != nil {
		return statusError
	}
	return statusSuccess
}

// RecordHTTPRequest counts a finished request and observes its latency.
func (m *Metrics) RecordHTTPRequest(method, route string, code int, start time.Time) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}

func (m *Metrics) RecordSearch(mode string, results int, d time.Duration, err error) {
	m.searchRequests.WithLabelValues(mode, status(err)).Inc()
	m.searchDuration.WithLabelValues(mode).Observe(d.Seconds())
	if err == nil {
		m.searchResults.Observe(float64(results))
	}
}

func (m *Metrics) RecordIngest(state, outcome string, d time.Duration) {
	m.ingestTotal.WithLabelValues(state, outcome).Inc()
	m.ingestDuration.WithLabelValues(state).Observe(d.Seconds())
}

// CreateCounter registers an ad-hoc counter on the private registry.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec(m.namespace, name, help, labels)
	m.Registry.MustRegister(counter)
	return counter
}

func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.Registry.MustRegister(hist)
	return hist
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
