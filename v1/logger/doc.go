// Package logger is the zap-backed structured logger shared by every
// component of the profile search service.
//
// Domain packages depend on the Logger interface; NewLoggerClient returns the
// concrete *LoggerClient, and FXModule provides both.
//
// Every call takes a message, an optional error and optional field maps:
//
//	log.Info("ingest finished", nil, map[string]interface{}{
//		"profile_id": raw.ID,
//		"outcome":    res.Outcome,
//	})
//	log.Error("embedding failed", err, map[string]interface{}{"vector": "education"})
//
// The *WithContext variants add trace_id and span_id from the active
// OpenTelemetry span when Config.EnableTracing is set, so ingest and search
// logs can be joined with their traces:
//
//	log.WarnWithContext(ctx, "vibe report skipped", err, nil)
//
// Level comes from ZAP_LOGGER_LEVEL (logger.level in the YAML config) and
// accepts debug, info, warning and error. Output is JSON on stderr with an
// ISO8601 timestamp, the caller, and the pid and service fields on every entry.
//
// NewNop discards everything and is what constructors fall back to when they
// are handed a nil Logger.
package logger
