package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/verona-ai/profilesearch/v1/observability"
)

var ErrNotProducer = errors.New("kafka: client is not a producer")
var ErrNotConsumer = errors.New("kafka: client is not a consumer")

// Publish writes one message. headers typically carry the trace context.
func (k *KafkaClient) Publish(ctx context.Context, key string, body []byte, headers map[string]string) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.writer == nil {
		return ErrNotProducer
	}

	msg := kafka.Message{Key: []byte(key), Value: body}
	for hk, hv := range headers {
		msg.Headers = append(msg.Headers, kafka.Header{Key: hk, Value: []byte(hv)})
	}

	start := time.Now()
	err := k.writer.WriteMessages(ctx, msg)
	k.observe("produce", time.Since(start), err, int64(len(body)))
	if err != nil {
		return fmt.Errorf("[Kafka] publish: %w", err)
	}
	return nil
}

// FetchMessage blocks until a message is available or ctx is done. The
// message is not committed. Cancel ctx before calling Close.
func (k *KafkaClient) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if k.reader == nil {
		return kafka.Message{}, ErrNotConsumer
	}
	start := time.Now()
	msg, err := k.reader.FetchMessage(ctx)
	if ctx.Err() == nil {
		k.observe("consume", time.Since(start), err, int64(len(msg.Value)))
	}
	return msg, err
}

// CommitMessages commits the offsets of msgs for the consumer group.
func (k *KafkaClient) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if k.reader == nil {
		return ErrNotConsumer
	}
	start := time.Now()
	err := k.reader.CommitMessages(ctx, msgs...)
	k.observe("commit", time.Since(start), err, int64(len(msgs)))
	return err
}

// Headers returns the message headers as a plain map.
func Headers(msg kafka.Message) map[string]string {
	out := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

func (k *KafkaClient) observe(operation string, d time.Duration, err error, size int64) {
	if k.observer == nil {
		return
	}
	k.observer.ObserveOperation(observability.OperationContext{
		Component: "kafka",
		Operation: operation,
		Resource:  k.cfg.Topic,
		Duration:  d,
		Error:     err,
		Size:      size,
	})
}
