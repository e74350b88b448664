// Package kafka connects the ingest pipeline to a Kafka topic of raw
// profiles.
//
// KafkaClient wraps a kafka-go reader and writer. IngestConsumer reads the
// topic, hands each message to an Ingester and commits it whether or not the
// ingest succeeded: writes are idempotent, so a failed record is fixed by the
// next message for the same profile rather than by redelivery.
//
// Producers key messages by profile id. Same-key messages land in one
// partition and are processed in order by the worker that owns the key.
// Different keys of one partition may finish out of order; the committed
// offset only advances past messages that are all done.
//
// Trace context travels in message headers:
//
//	headers := tracerClient.GetCarrier(ctx)
//	err := client.Publish(ctx, raw.ID, body, headers)
//
// and the consumer continues the trace with tracer.SetCarrierOnContext.
package kafka
