// Package queryparse turns a free-text search request into per-field
// sub-queries and a guess at hard filters, using a chat model in JSON mode.
//
// CachedParser memoizes results in Redis keyed by the normalized query, so a
// repeated query costs one cache round trip instead of a model call.
package queryparse
