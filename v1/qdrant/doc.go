// Package qdrant implements vectordb.Store on top of the official Qdrant Go
// client.
//
// A profile collection carries several named vectors: dense vectors compared
// by cosine, and optionally a multivector compared by max-similarity. Payload
// indexes are declared with the collection, before any point is written.
//
// # Basic Usage
//
//	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: cfg})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := qdrant.NewProfileStore(client, profile.Schema(cfg.Collection, vectordb.MultiVector))
//	if _, err := store.EnsureSchema(ctx, false); err != nil {
//	    log.Fatal(err)
//	}
//
// # Retrieval
//
// Query runs one prefetch per named vector under the shared filter and fuses
// the rankings with distribution-based score fusion (DBSF). Offset and limit
// apply to the fused list, and the score threshold is applied after fusion.
//
// Scroll returns filter-only matches in point id order. Qdrant scrolls by
// cursor, so numeric offsets are served by over-fetching and slicing.
//
// # Fx
//
//	app := fx.New(
//	    qdrant.FXModule, // requires *qdrant.Config and vectordb.Schema
//	)
package qdrant
