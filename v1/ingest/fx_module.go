package ingest

import (
	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/tracer"
	"github.com/verona-ai/profilesearch/v1/vectordb"
	"github.com/verona-ai/profilesearch/v1/vibe"
)

// FXModule provides the Orchestrator. Without a vibe.Generator in the graph
// profiles are stored without vibe reports.
var FXModule = fx.Module("ingest",
	fx.Provide(NewOrchestratorFromParams),
)

type OrchestratorParams struct {
	fx.In

	Config     Config
	Store      vectordb.Store
	Gateway    embedding.Gateway
	Normalizer *profile.Normalizer
	Schema     vectordb.Schema
	Logger     logger.Logger
	Generator  vibe.Generator         `optional:"true"`
	Tracer     *tracer.Tracer         `optional:"true"`
	Observer   observability.Observer `optional:"true"`
}

func NewOrchestratorFromParams(p OrchestratorParams) *Orchestrator {
	o := NewOrchestrator(p.Store, p.Gateway, p.Generator, p.Normalizer, p.Schema, p.Config, p.Logger)
	if p.Tracer != nil {
		o.WithTracer(p.Tracer)
	}
	if p.Observer != nil {
		o.WithObserver(p.Observer)
	}
	return o
}
