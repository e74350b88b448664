package search

import (
	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/tracer"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// FXModule provides the search Service. Config, vectordb.Store,
// embedding.Gateway, vectordb.Schema and logger.Logger must be in the graph;
// a QueryParser, tracer and observer are picked up when present.
var FXModule = fx.Module("search",
	fx.Provide(NewServiceFromParams),
)

type ServiceParams struct {
	fx.In

	Config   Config
	Store    vectordb.Store
	Gateway  embedding.Gateway
	Schema   vectordb.Schema
	Logger   logger.Logger
	Parser   QueryParser            `optional:"true"`
	Tracer   *tracer.Tracer         `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func NewServiceFromParams(p ServiceParams) *Service {
	svc := NewService(p.Store, p.Gateway, p.Schema, p.Config, p.Logger)
	if p.Parser != nil {
		svc.WithParser(p.Parser)
	}
	if p.Tracer != nil {
		svc.WithTracer(p.Tracer)
	}
	if p.Observer != nil {
		svc.WithObserver(p.Observer)
	}
	return svc
}
