package kafka

import (
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	DefaultMinBytes      = 1
	DefaultMaxBytes      = 10e6
	DefaultMaxWait       = 500 * time.Millisecond
	DefaultStartOffset   = kafka.FirstOffset
	DefaultRequiredAcks  = kafka.RequireAll
	DefaultMaxAttempts   = 3
	DefaultWriteTimeout  = 10 * time.Second
	DefaultWorkers       = 1
	DefaultIngestTimeout = 2 * time.Minute
)

// Config configures the Kafka client and the ingest consumer.
type Config struct {
	// Enabled turns the ingest consumer on in the server.
	Enabled bool `yaml:"enabled" mapstructure:"enabled" envconfig:"KAFKA_ENABLED"`

	Brokers []string `yaml:"brokers" mapstructure:"brokers" envconfig:"KAFKA_BROKERS"`
	Topic   string   `yaml:"topic" mapstructure:"topic" envconfig:"KAFKA_TOPIC"`
	GroupID string   `yaml:"group_id" mapstructure:"group_id" envconfig:"KAFKA_GROUP_ID"`

	// IsConsumer creates a reader; otherwise a writer is created.
	IsConsumer bool `yaml:"is_consumer" mapstructure:"is_consumer" envconfig:"KAFKA_IS_CONSUMER"`

	MinBytes    int           `yaml:"min_bytes" mapstructure:"min_bytes"`
	MaxBytes    int           `yaml:"max_bytes" mapstructure:"max_bytes"`
	MaxWait     time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
	StartOffset int64         `yaml:"start_offset" mapstructure:"start_offset"`

	RequiredAcks     kafka.RequiredAcks `yaml:"required_acks" mapstructure:"required_acks"`
	MaxAttempts      int                `yaml:"max_attempts" mapstructure:"max_attempts"`
	WriteTimeout     time.Duration      `yaml:"write_timeout" mapstructure:"write_timeout"`
	CompressionCodec string             `yaml:"compression_codec" mapstructure:"compression_codec"`

	// Workers is the number of concurrent ingests. Messages are sharded by
	// key so one profile id is always handled by the same worker. Offsets
	// are still committed in order per partition.
	Workers int `yaml:"workers" mapstructure:"workers" envconfig:"KAFKA_WORKERS"`

	// IngestTimeout bounds one message's ingest.
	IngestTimeout time.Duration `yaml:"ingest_timeout" mapstructure:"ingest_timeout"`

	TLS  TLSConfig  `yaml:"tls" mapstructure:"tls"`
	SASL SASLConfig `yaml:"sasl" mapstructure:"sasl"`
}

type TLSConfig struct {
	Enabled            bool   `yaml:"enabled" mapstructure:"enabled"`
	CACertPath         string `yaml:"ca_cert_path" mapstructure:"ca_cert_path"`
	ClientCertPath     string `yaml:"client_cert_path" mapstructure:"client_cert_path"`
	ClientKeyPath      string `yaml:"client_key_path" mapstructure:"client_key_path"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`
}

type SASLConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Mechanism is PLAIN, SCRAM-SHA-256 or SCRAM-SHA-512.
	Mechanism string `yaml:"mechanism" mapstructure:"mechanism"`
	Username  string `yaml:"username" mapstructure:"username"`
	Password  string `yaml:"password" mapstructure:"password"`
}

func DefaultConfig() Config {
	return Config{
		Topic:         "profiles.raw",
		GroupID:       "profilesearch-ingest",
		IsConsumer:    true,
		MinBytes:      DefaultMinBytes,
		MaxBytes:      DefaultMaxBytes,
		MaxWait:       DefaultMaxWait,
		StartOffset:   DefaultStartOffset,
		RequiredAcks:  DefaultRequiredAcks,
		MaxAttempts:   DefaultMaxAttempts,
		WriteTimeout:  DefaultWriteTimeout,
		Workers:       DefaultWorkers,
		IngestTimeout: DefaultIngestTimeout,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinBytes == 0 {
		c.MinBytes = d.MinBytes
	}
	if c.MaxBytes == 0 {
		c.MaxBytes = d.MaxBytes
	}
	if c.MaxWait == 0 {
		c.MaxWait = d.MaxWait
	}
	if c.StartOffset == 0 {
		c.StartOffset = d.StartOffset
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = d.RequiredAcks
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.IngestTimeout == 0 {
		c.IngestTimeout = d.IngestTimeout
	}
	return c
}
