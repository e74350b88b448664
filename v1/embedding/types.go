package embedding

import (
	"context"

	"github.com/verona-ai/profilesearch/v1/vectordb"
)

//go:generate mockgen -source=types.go -destination=mock_gateway.go -package=embedding

// DenseEmbedder produces one fixed-size vector per text.
type DenseEmbedder interface {
	EmbedDense(ctx context.Context, text string) ([]float32, error)
}

// MultiEmbedder produces one vector per token of the text.
type MultiEmbedder interface {
	EmbedMulti(ctx context.Context, text string) ([][]float32, error)
}

// Gateway embeds text for a named vector, choosing the capability from the
// vector's declared kind. Callers skip blank text: a field without text has
// no vector, and Embed rejects it with ErrEmptyText.
type Gateway interface {
	Embed(ctx context.Context, spec vectordb.VectorSpec, text string) (vectordb.Vector, error)
}
