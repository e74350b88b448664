// Package ingest decides the smallest set of store writes for an incoming
// profile and performs them.
//
// Each call classifies the stored record into a State and takes one path:
//
//	NoExistingRecord (or forceUpdate)  full upsert: every vector and the full payload
//	ExistingNotCirculateable           eligibility payload only, no embedding work
//	ExistingCirculateable              diff against the stored profile, re-embed
//	                                   changed text fields, partial vector and
//	                                   payload updates
//
// Embedding and vibe report failures are absorbed per field: the field keeps
// its stored value and its hash is not advanced, so the next ingest retries
// it. Store failures are returned to the caller; every write is keyed by the
// deterministic point id, so retrying is safe.
package ingest
