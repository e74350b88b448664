package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/ingest"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/metrics"
	"github.com/verona-ai/profilesearch/v1/search"
	"github.com/verona-ai/profilesearch/v1/tracer"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// FXModule serves the HTTP API. A ServerConfig, *search.Service,
// *ingest.Orchestrator, vectordb.Store and logger.Logger must be in the
// graph.
var FXModule = fx.Module("api",
	fx.Provide(
		NewHandlerWithDI,
		NewRouterWithDI,
		NewServer,
	),
	fx.Invoke(RegisterServerLifecycle),
)

type HandlerParams struct {
	fx.In

	Search       *search.Service
	Orchestrator *ingest.Orchestrator
	Store        vectordb.Store
	Logger       logger.Logger
	Parser       search.QueryParser `optional:"true"`
}

func NewHandlerWithDI(p HandlerParams) *Handler {
	return NewHandler(p.Search, p.Orchestrator, p.Store, p.Parser, p.Logger)
}

type RouterParams struct {
	fx.In

	Handler      *Handler
	Logger       logger.Logger
	Metrics      metrics.MetricsCollector `optional:"true"`
	Tracer       *tracer.Tracer           `optional:"true"`
	TracerConfig tracer.Config            `optional:"true"`
}

// NewRouterWithDI adds otelgin server spans when a tracer is in the graph.
// The tracer installs the global provider that otelgin reads.
func NewRouterWithDI(p RouterParams) *gin.Engine {
	var mw []gin.HandlerFunc
	if p.Tracer != nil {
		service := p.TracerConfig.ServiceName
		if service == "" {
			service = "profilesearch"
		}
		mw = append(mw, otelgin.Middleware(service))
	}
	return NewRouter(p.Handler, p.Metrics, p.Logger, mw...)
}

func RegisterServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}
