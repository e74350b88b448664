package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// ErrEmptyText is returned for blank input. No backend is called.
var ErrEmptyText = errors.New("embedding: empty text")

// Client is the Gateway implementation used by ingest and search.
type Client struct {
	dense    DenseEmbedder
	multi    MultiEmbedder
	observer observability.Observer
}

// NewClient builds a Gateway from its two capabilities. multi may be nil when
// no multivector field is configured.
func NewClient(dense DenseEmbedder, multi MultiEmbedder) *Client {
	return &Client{dense: dense, multi: multi}
}

// WithObserver sets the observer notified after each backend call.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	return c
}

// Embed implements Gateway.
func (c *Client) Embed(ctx context.Context, spec vectordb.VectorSpec, text string) (vectordb.Vector, error) {
	if strings.TrimSpace(text) == "" {
		return vectordb.Vector{}, fmt.Errorf("%w for %q", ErrEmptyText, spec.Name)
	}

	start := time.Now()
	var (
		vec vectordb.Vector
		err error
	)

	switch spec.Kind {
	case vectordb.Dense:
		if c.dense == nil {
			return vectordb.Vector{}, fmt.Errorf("embedding: no dense embedder for %q", spec.Name)
		}
		var v []float32
		v, err = c.dense.EmbedDense(ctx, text)
		vec = vectordb.DenseOf(v)
	case vectordb.MultiVector:
		if c.multi == nil {
			return vectordb.Vector{}, fmt.Errorf("embedding: no multivector embedder for %q", spec.Name)
		}
		var m [][]float32
		m, err = c.multi.EmbedMulti(ctx, text)
		vec = vectordb.MultiOf(m)
	default:
		return vectordb.Vector{}, fmt.Errorf("embedding: unsupported vector kind %v for %q", spec.Kind, spec.Name)
	}

	c.observe(spec, time.Since(start), err)
	if err != nil {
		return vectordb.Vector{}, fmt.Errorf("embedding: %s: %w", spec.Name, err)
	}
	if err := vec.Check(spec); err != nil {
		return vectordb.Vector{}, err
	}
	return vec, nil
}

func (c *Client) observe(spec vectordb.VectorSpec, d time.Duration, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "embedding",
		Operation:   "embed",
		Resource:    spec.Name,
		SubResource: spec.Kind.String(),
		Duration:    d,
		Error:       err,
		Size:        1,
	})
}
