package queryparse

import (
	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/redis"
	"github.com/verona-ai/profilesearch/v1/search"
)

// FXModule provides search.QueryParser. The Redis cache is used when a
// redis.Client is in the graph and Config.CacheTTL is positive.
var FXModule = fx.Module("queryparse",
	fx.Provide(NewQueryParser),
)

type ParserParams struct {
	fx.In

	Config   Config
	Logger   logger.Logger
	Cache    redis.Client           `optional:"true"`
	Observer observability.Observer `optional:"true"`
}

func NewQueryParser(p ParserParams) (search.QueryParser, error) {
	parser, err := NewParser(p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	if p.Observer != nil {
		parser.WithObserver(p.Observer)
	}
	if p.Cache == nil || p.Config.CacheTTL <= 0 {
		return parser, nil
	}

	cached := NewCachedParser(parser, p.Cache, p.Config.CacheTTL, p.Logger)
	if p.Observer != nil {
		cached.WithObserver(p.Observer)
	}
	return cached, nil
}
