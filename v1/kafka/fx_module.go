package kafka

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/ingest"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/tracer"
)

// FXModule runs the ingest consumer for the lifetime of the application.
// Config (with IsConsumer set), *ingest.Orchestrator and logger.Logger must
// be in the graph.
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClientWithDI,
		NewIngestConsumerWithDI,
	),
	fx.Invoke(RegisterConsumerLifecycle),
)

type KafkaParams struct {
	fx.In

	Config   Config
	Logger   logger.Logger
	Observer observability.Observer `optional:"true"`
}

func NewClientWithDI(p KafkaParams) (*KafkaClient, error) {
	client, err := NewClient(p.Config, p.Logger)
	if err != nil {
		return nil, err
	}
	if p.Observer != nil {
		client.WithObserver(p.Observer)
	}
	return client, nil
}

type ConsumerParams struct {
	fx.In

	Config       Config
	Client       *KafkaClient
	Orchestrator *ingest.Orchestrator
	Logger       logger.Logger
	Tracer       *tracer.Tracer `optional:"true"`
}

func NewIngestConsumerWithDI(p ConsumerParams) *IngestConsumer {
	c := NewIngestConsumer(p.Client, p.Orchestrator, p.Config, p.Logger)
	if p.Tracer != nil {
		c.WithTracer(p.Tracer)
	}
	return c
}

// RegisterConsumerLifecycle starts the consumer loop on start. On stop the
// loop is cancelled and drained before the client is closed.
func RegisterConsumerLifecycle(lc fx.Lifecycle, client *KafkaClient, consumer *IngestConsumer, log logger.Logger) {
	runCtx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := consumer.Run(runCtx); err != nil {
					log.Error("[Kafka] ingest consumer stopped", err, nil)
				}
			}()
			log.Info("[Kafka] ingest consumer started", nil, map[string]interface{}{"topic": client.cfg.Topic})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-ctx.Done():
				log.Warn("[Kafka] consumer did not drain before shutdown deadline", ctx.Err(), nil)
			}
			return client.Close()
		},
	})
}
