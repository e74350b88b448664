package vectordb

import "context"

//go:generate mockgen -source=interface.go -destination=mock_store.go -package=vectordb

// Store is the multi-vector store contract used by ingestion and search.
//
// All ids are store point ids. Writes are idempotent: repeating any of them
// with the same arguments leaves the store unchanged.
type Store interface {
	// EnsureSchema creates the collection with its named vectors and payload
	// indexes. Returns true when a collection was created.
	EnsureSchema(ctx context.Context, recreate bool) (bool, error)

	// UpsertFull writes all vectors and the full payload of a point.
	UpsertFull(ctx context.Context, p Point) error

	// UpdateVectors replaces only the given named vectors of a point.
	UpdateVectors(ctx context.Context, id string, vectors NamedVectors) error

	// DeleteVectors removes the named vectors from a point. Names the point
	// does not carry are ignored.
	DeleteVectors(ctx context.Context, id string, names []string) error

	// SetPayload merges the given fields into a point's payload.
	SetPayload(ctx context.Context, id string, payload map[string]any) error

	// ReplacePayload overwrites a point's whole payload, leaving its vectors.
	ReplacePayload(ctx context.Context, id string, payload map[string]any) error

	// Get returns the stored payload for id, or nil when absent.
	Get(ctx context.Context, id string) (*Record, error)

	// Count returns the exact number of points matching filter.
	Count(ctx context.Context, filter *FilterSet) (int, error)

	// Query executes a fused multi-vector retrieval.
	Query(ctx context.Context, plan QueryPlan) ([]SearchResult, error)

	// Scroll returns filter-only matches without similarity scores.
	Scroll(ctx context.Context, req ScrollRequest) ([]SearchResult, error)

	// CollectionInfo reports collection status and sizes.
	CollectionInfo(ctx context.Context) (*CollectionInfo, error)
}
