package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/verona-ai/profilesearch/v1/api"
	"github.com/verona-ai/profilesearch/v1/config"
	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/ingest"
	"github.com/verona-ai/profilesearch/v1/kafka"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/metrics"
	"github.com/verona-ai/profilesearch/v1/qdrant"
	"github.com/verona-ai/profilesearch/v1/queryparse"
	"github.com/verona-ai/profilesearch/v1/redis"
	"github.com/verona-ai/profilesearch/v1/search"
	"github.com/verona-ai/profilesearch/v1/tracer"
	"github.com/verona-ai/profilesearch/v1/vibe"
)

// Options assembles the server graph. Optional collaborators are included
// only when their section is configured:
//   - vibe generation needs an OpenAI key and ingest.generate_vibe
//   - query parsing needs an OpenAI key
//   - the parse cache needs redis.enabled
//   - the ingest consumer needs kafka.enabled
func Options(cfg *config.Config) fx.Option {
	if cfg.Kafka.Enabled {
		cfg.Kafka.IsConsumer = true
	}

	opts := []fx.Option{
		cfg.Options(),
		fx.Supply(api.ServerConfig{
			Address:         cfg.HTTP.Address,
			ReadTimeout:     cfg.HTTP.ReadTimeout,
			WriteTimeout:    cfg.HTTP.WriteTimeout,
			ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		}),
		fx.WithLogger(func(log *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Zap}
		}),

		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		qdrant.FXModule,
		embedding.FXModule,
		search.FXModule,
		ingest.FXModule,
		api.FXModule,
	}

	if cfg.Ingest.GenerateVibe && cfg.Vibe.APIKey != "" {
		opts = append(opts, fx.Provide(newGenerator))
	}
	if cfg.QueryParse.APIKey != "" {
		opts = append(opts, queryparse.FXModule)
	}
	if cfg.Redis.Enabled {
		opts = append(opts, redis.FXModule)
	}
	if cfg.Kafka.Enabled {
		opts = append(opts, kafka.FXModule)
	}
	return fx.Options(opts...)
}

func newGenerator(cfg vibe.Config) (vibe.Generator, error) {
	gen, err := vibe.NewLLMGenerator(cfg)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
