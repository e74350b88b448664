// Package metrics exposes Prometheus collectors for the search service on a
// private registry served at /metrics.
//
// *Metrics implements observability.Observer, so the vector store, embedding
// gateway, vibe generator, search service and ingest orchestrator report into
// it without importing Prometheus:
//
//	m := metrics.NewMetrics(metrics.DefaultConfig())
//	store.WithObserver(m)
//	go m.Server.ListenAndServe()
//
// Collectors, all prefixed with Config.Namespace and labelled with
// service=Config.ServiceName:
//
//	http_requests_total{method,route,status}
//	http_request_duration_seconds{method,route}
//	search_requests_total{mode,status}, search_duration_seconds{mode}, search_results
//	filter_analysis_failures_total
//	ingest_total{state,outcome}, ingest_duration_seconds{state}
//	embedding_requests_total{field,kind,status}, embedding_duration_seconds{field}
//	vibe_generations_total{status}, vibe_generation_duration_seconds
//	store_operations_total{operation,status}, store_operation_duration_seconds{operation}
//	query_cache_lookups_total{result}
//	operations_total{component,operation,status}
//
// With fx, metrics.FXModule provides *Metrics, MetricsCollector and
// observability.Observer and starts the server on app start.
package metrics
