package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"

	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
)

// KafkaClient holds a reader (consumer mode) or a writer (producer mode).
type KafkaClient struct {
	cfg Config

	logger   logger.Logger
	observer observability.Observer

	writer *kafka.Writer
	reader *kafka.Reader

	// mu protects writer and reader against use during Close.
	mu sync.RWMutex

	closeOnce sync.Once
}

// NewClient creates the reader or writer selected by cfg.IsConsumer. The log
// receives kafka-go's internal errors; nil discards them.
func NewClient(cfg Config, log logger.Logger) (*KafkaClient, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("[Kafka] no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("[Kafka] no topic configured")
	}
	cfg = cfg.withDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	var tlsConfig *tls.Config
	var err error
	if cfg.TLS.Enabled {
		tlsConfig, err = createTLSConfig(cfg.TLS)
		if err != nil {
			return nil, fmt.Errorf("[Kafka] create TLS config: %w", err)
		}
	}

	var mechanism sasl.Mechanism
	if cfg.SASL.Enabled {
		mechanism, err = createSASLMechanism(cfg.SASL)
		if err != nil {
			return nil, fmt.Errorf("[Kafka] create SASL mechanism: %w", err)
		}
	}

	k := &KafkaClient{cfg: cfg, logger: log}
	dialer := &kafka.Dialer{TLS: tlsConfig, SASLMechanism: mechanism}
	if cfg.IsConsumer {
		k.reader = createReader(cfg, dialer, log)
		log.Info("[Kafka] consumer initialized", nil, map[string]interface{}{"topic": cfg.Topic, "group_id": cfg.GroupID})
	} else {
		k.writer = createWriter(cfg, dialer, log)
		log.Info("[Kafka] producer initialized", nil, map[string]interface{}{"topic": cfg.Topic})
	}
	return k, nil
}

func (k *KafkaClient) WithObserver(observer observability.Observer) *KafkaClient {
	k.observer = observer
	return k
}

// Close closes the reader and writer. Further calls are no-ops.
func (k *KafkaClient) Close() error {
	var errs []error
	k.closeOnce.Do(func() {
		k.mu.Lock()
		defer k.mu.Unlock()
		if k.reader != nil {
			if err := k.reader.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close reader: %w", err))
			}
		}
		if k.writer != nil {
			if err := k.writer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close writer: %w", err))
			}
		}
		k.logger.Info("[Kafka] client closed", nil, nil)
	})
	if len(errs) > 0 {
		return fmt.Errorf("[Kafka] %v", errs)
	}
	return nil
}

func errorLogger(log logger.Logger) kafka.LoggerFunc {
	return func(msg string, args ...interface{}) {
		log.Error("Kafka internal error", nil, map[string]interface{}{
			"error": fmt.Sprintf(msg, args...),
		})
	}
}

func createWriter(cfg Config, dialer *kafka.Dialer, log logger.Logger) *kafka.Writer {
	writerConfig := kafka.WriterConfig{
		Brokers:      cfg.Brokers,
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  cfg.MaxAttempts,
		WriteTimeout: cfg.WriteTimeout,
		RequiredAcks: int(cfg.RequiredAcks),
		ErrorLogger:  errorLogger(log),
		Dialer:       dialer,
	}

	switch cfg.CompressionCodec {
	case "gzip":
		writerConfig.CompressionCodec = &compress.GzipCodec
	case "snappy":
		writerConfig.CompressionCodec = &compress.SnappyCodec
	case "lz4":
		writerConfig.CompressionCodec = &compress.Lz4Codec
	case "zstd":
		writerConfig.CompressionCodec = &compress.ZstdCodec
	}

	return kafka.NewWriter(writerConfig)
}

// createReader builds a consumer-group reader with explicit commits.
func createReader(cfg Config, dialer *kafka.Dialer, log logger.Logger) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       cfg.MinBytes,
		MaxBytes:       cfg.MaxBytes,
		MaxWait:        cfg.MaxWait,
		StartOffset:    cfg.StartOffset,
		CommitInterval: 0,
		ErrorLogger:    errorLogger(log),
		Dialer:         dialer,
	})
}

func createTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("parse CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, fmt.Errorf("load client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

func createSASLMechanism(cfg SASLConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported SASL mechanism: %s", cfg.Mechanism)
	}
}
