package metrics

import (
	"fmt"

	"github.com/verona-ai/profilesearch/v1/observability"
)

var _ observability.Observer = (*Metrics)(nil)

// ObserveOperation routes component events to their collectors. Components
// without a dedicated collector land in operations_total.
func (m *Metrics) ObserveOperation(op observability.OperationContext) {
	switch op.Component {
	case "qdrant":
		m.storeOperations.WithLabelValues(op.Operation, status(op.Error)).Inc()
		m.storeDuration.WithLabelValues(op.Operation).Observe(op.Duration.Seconds())
	case "embedding":
		m.embeddingRequests.WithLabelValues(op.Resource, op.SubResource, status(op.Error)).Inc()
		m.embeddingDuration.WithLabelValues(op.Resource).Observe(op.Duration.Seconds())
	case "vibe":
		m.vibeGenerations.WithLabelValues(status(op.Error)).Inc()
		m.vibeDuration.Observe(op.Duration.Seconds())
	case "search":
		if op.Operation == "filter_analysis" {
			m.filterAnalysisFailures.Inc()
			return
		}
		m.RecordSearch(op.Operation, int(op.Size), op.Duration, op.Error)
	case "ingest":
		outcome := metadataString(op.Metadata, "outcome")
		if outcome == "" {
			outcome = status(op.Error)
		}
		m.RecordIngest(op.Operation, outcome, op.Duration)
	case "querycache":
		if result := metadataString(op.Metadata, "result"); result != "" {
			m.cacheLookups.WithLabelValues(result).Inc()
			return
		}
		m.operations.WithLabelValues(op.Component, op.Operation, status(op.Error)).Inc()
	default:
		m.operations.WithLabelValues(op.Component, op.Operation, status(op.Error)).Inc()
	}
}

func metadataString(md map[string]interface{}, key string) string {
	v, ok := md[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
