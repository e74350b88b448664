package qdrant

import (
	"context"
	"log"
	"sync"

	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// FXModule provides the Qdrant client and the profile store as
// vectordb.Store. A *Config and a vectordb.Schema must be in the graph.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantClient,
		NewStore,
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams defines dependencies needed to construct the Qdrant client.
type QdrantParams struct {
	fx.In
	Config *Config
}

// StoreParams defines dependencies of the profile store.
type StoreParams struct {
	fx.In
	Client   *QdrantClient
	Schema   vectordb.Schema
	Observer observability.Observer `optional:"true"`
}

// NewStore builds the ProfileStore and exposes it as both concrete type and
// vectordb.Store.
func NewStore(p StoreParams) (*ProfileStore, vectordb.Store) {
	store := NewProfileStore(p.Client, p.Schema)
	if p.Observer != nil {
		store.WithObserver(p.Observer)
	}
	return store, store
}

// RegisterQdrantLifecycle ensures the collection exists on start and closes
// the connection on stop.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *QdrantClient, store *ProfileStore) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			_, err := store.EnsureSchema(ctx, false)
			return err
		},
		OnStop: func(ctx context.Context) error {
			once.Do(func() {
				if err := client.Close(); err != nil {
					log.Printf("[Qdrant] close failed: %v", err)
				}
				log.Println("[Qdrant] client connection closed")
			})
			return nil
		},
	})
}
