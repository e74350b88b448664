package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/verona-ai/profilesearch/v1/ingest"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/tracer"
)

// Ingester is implemented by *ingest.Orchestrator.
type Ingester interface {
	Ingest(ctx context.Context, raw *profile.RawProfile) (*ingest.Result, error)
}

// MessageSource is the consumer side of *KafkaClient.
type MessageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

// IngestConsumer feeds raw profile messages into an Ingester.
type IngestConsumer struct {
	source   MessageSource
	ingester Ingester
	workers  int
	timeout  time.Duration
	logger   logger.Logger
	tracer   *tracer.Tracer
}

func NewIngestConsumer(source MessageSource, ingester Ingester, cfg Config, log logger.Logger) *IngestConsumer {
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &IngestConsumer{
		source:   source,
		ingester: ingester,
		workers:  cfg.Workers,
		timeout:  cfg.IngestTimeout,
		logger:   log,
	}
}

func (c *IngestConsumer) WithTracer(t *tracer.Tracer) *IngestConsumer {
	c.tracer = t
	return c
}

// Run consumes until ctx is cancelled or the source fails. It returns nil on
// cancellation.
//
// With several workers, messages of one partition can finish out of order.
// Offsets are committed only up to the oldest message still in flight on its
// partition, so a crash never skips a message that was not processed.
func (c *IngestConsumer) Run(ctx context.Context) error {
	tracker := newOffsetTracker()
	commits := make(chan kafka.Message, c.workers)
	committerDone := make(chan struct{})
	go func() {
		defer close(committerDone)
		for msg := range commits {
			c.commit(ctx, msg)
		}
	}()

	queues := make([]chan *inflight, c.workers)
	var wg sync.WaitGroup
	for i := range queues {
		queues[i] = make(chan *inflight)
		wg.Add(1)
		go func(in <-chan *inflight) {
			defer wg.Done()
			for e := range in {
				c.handle(ctx, e.msg)
				tracker.finish(e, commits)
			}
		}(queues[i])
	}
	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
		close(commits)
		<-committerDone
	}()

	for {
		msg, err := c.source.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("[Kafka] fetch: %w", err)
		}
		e := tracker.track(msg)
		select {
		case queues[shard(msg.Key, c.workers)] <- e:
		case <-ctx.Done():
			return nil
		}
	}
}

// handle ingests one message. Ingest failures are logged, not retried; the
// message is committed either way.
func (c *IngestConsumer) handle(ctx context.Context, msg kafka.Message) {
	msgCtx := c.tracer.SetCarrierOnContext(ctx, Headers(msg))
	msgCtx, span := c.tracer.StartSpan(msgCtx, "kafka.IngestMessage")
	defer span.End()
	c.tracer.SetAttributes(span, map[string]interface{}{
		"messaging.kafka.partition": msg.Partition,
		"messaging.kafka.offset":    msg.Offset,
		"messaging.kafka.key":       string(msg.Key),
	})

	if err := c.ingest(msgCtx, msg); err != nil {
		c.tracer.RecordErrorOnSpan(span, err)
		c.logger.ErrorWithContext(msgCtx, "ingest from kafka failed", err, map[string]interface{}{
			"key":       string(msg.Key),
			"partition": msg.Partition,
			"offset":    msg.Offset,
		})
	}
}

// commit uses the consumer's context so a message whose ingest timed out is
// still committed.
func (c *IngestConsumer) commit(ctx context.Context, msg kafka.Message) {
	if err := c.source.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
		c.logger.ErrorWithContext(ctx, "kafka commit failed", err, map[string]interface{}{
			"partition": msg.Partition,
			"offset":    msg.Offset,
		})
	}
}

func (c *IngestConsumer) ingest(ctx context.Context, msg kafka.Message) error {
	var raw profile.RawProfile
	if err := json.Unmarshal(msg.Value, &raw); err != nil {
		return fmt.Errorf("%w: decode message: %v", profile.ErrInvalidProfile, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	_, err := c.ingester.Ingest(ctx, &raw)
	return err
}

// shard maps a message key to a worker so one key is never processed
// concurrently.
func shard(key []byte, workers int) int {
	if workers <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write(key)
	return int(h.Sum32() % uint32(workers))
}

// offsetTracker orders commits per partition. Messages are tracked in fetch
// order, which is offset order within a partition.
type offsetTracker struct {
	mu      sync.Mutex
	pending map[int][]*inflight
}

type inflight struct {
	msg  kafka.Message
	done bool
}

func newOffsetTracker() *offsetTracker {
	return &offsetTracker{pending: map[int][]*inflight{}}
}

func (t *offsetTracker) track(msg kafka.Message) *inflight {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := &inflight{msg: msg}
	t.pending[msg.Partition] = append(t.pending[msg.Partition], e)
	return e
}

// finish marks e processed and, when the head of its partition is now
// complete, sends the newest completed message to out. Sending under the lock
// keeps commits of one partition in offset order.
func (t *offsetTracker) finish(e *inflight, out chan<- kafka.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.done = true
	q := t.pending[e.msg.Partition]
	n := 0
	for n < len(q) && q[n].done {
		n++
	}
	if n == 0 {
		return
	}
	last := q[n-1].msg
	t.pending[e.msg.Partition] = q[n:]
	out <- last
}
