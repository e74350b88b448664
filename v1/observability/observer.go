// Package observability defines the hook through which storage, embedding and
// cache clients report individual operations without importing a metrics or
// tracing backend.
//
// Clients hold an optional Observer and call it once per operation:
//
//	client.WithObserver(metricsInstance)
//
// A nil Observer is valid and disables reporting.
package observability

import "time"

// OperationContext describes one completed operation.
type OperationContext struct {
	// Component is the reporting client, e.g. "qdrant", "embedding", "redis".
	Component string

	// Operation is the verb, e.g. "upsert", "set_payload", "embed".
	Operation string

	// Resource is the primary target (collection, vector name, cache key prefix).
	Resource string

	// SubResource adds detail such as the vector kind.
	SubResource string

	Duration time.Duration
	Error    error

	// Size is an operation-specific magnitude (points written, texts embedded).
	Size int64

	Metadata map[string]interface{}
}

// Observer receives operation events.
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ctx OperationContext)

func (f ObserverFunc) ObserveOperation(ctx OperationContext) { f(ctx) }
