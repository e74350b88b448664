package embedding

import (
	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// FXModule provides the Gateway. It expects Config, vectordb.Schema and an
// observability.Observer in the graph.
var FXModule = fx.Module(
	"embedding",
	fx.Provide(
		NewGatewayFromConfig,
		func(c *Client) Gateway { return c },
	),
)

// GatewayParams are the inputs of NewGatewayFromConfig.
type GatewayParams struct {
	fx.In

	Config   Config
	Schema   vectordb.Schema
	Observer observability.Observer `optional:"true"`
}

// NewGatewayFromConfig builds the dense embedder and, when the schema declares
// a multivector field, the ColBERT provider.
func NewGatewayFromConfig(p GatewayParams) (*Client, error) {
	needsMulti := false
	for _, v := range p.Schema.Vectors {
		if v.Kind == vectordb.MultiVector {
			needsMulti = true
		}
	}
	if err := p.Config.Validate(needsMulti); err != nil {
		return nil, err
	}

	dense, err := NewOpenAIEmbedder(p.Config.OpenAI)
	if err != nil {
		return nil, err
	}

	var multi MultiEmbedder
	if needsMulti {
		colbert, err := NewColBERTProvider(p.Config.ColBERT)
		if err != nil {
			return nil, err
		}
		multi = colbert
	}

	client := NewClient(dense, multi)
	if p.Observer != nil {
		client.WithObserver(p.Observer)
	}
	return client, nil
}
