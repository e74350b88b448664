package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/ingest"
	"github.com/verona-ai/profilesearch/v1/kafka"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/metrics"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/qdrant"
	"github.com/verona-ai/profilesearch/v1/queryparse"
	"github.com/verona-ai/profilesearch/v1/redis"
	"github.com/verona-ai/profilesearch/v1/search"
	"github.com/verona-ai/profilesearch/v1/tracer"
	"github.com/verona-ai/profilesearch/v1/vectordb"
	"github.com/verona-ai/profilesearch/v1/vibe"
)

type Config struct {
	App        AppConfig         `yaml:"app" mapstructure:"app"`
	HTTP       HTTPConfig        `yaml:"http" mapstructure:"http"`
	Logger     logger.Config     `yaml:"logger" mapstructure:"logger"`
	Metrics    metrics.Config    `yaml:"metrics" mapstructure:"metrics"`
	Tracer     tracer.Config     `yaml:"tracer" mapstructure:"tracer"`
	Qdrant     qdrant.Config     `yaml:"qdrant" mapstructure:"qdrant"`
	Embedding  embedding.Config  `yaml:"embedding" mapstructure:"embedding"`
	Vibe       vibe.Config       `yaml:"vibe" mapstructure:"vibe"`
	QueryParse queryparse.Config `yaml:"queryparse" mapstructure:"queryparse"`
	Search     search.Config     `yaml:"search" mapstructure:"search"`
	Ingest     ingest.Config     `yaml:"ingest" mapstructure:"ingest"`
	Redis      redis.Config      `yaml:"redis" mapstructure:"redis"`
	Kafka      kafka.Config      `yaml:"kafka" mapstructure:"kafka"`
}

type AppConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
	Env  string `yaml:"env" mapstructure:"env"`

	// CDNURL overrides the per-environment photo CDN base.
	CDNURL string `yaml:"cdn_url" mapstructure:"cdn_url"`
}

type HTTPConfig struct {
	Address         string        `yaml:"address" mapstructure:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		App: AppConfig{Name: "profilesearch", Env: string(profile.Development)},
		HTTP: HTTPConfig{
			Address:         ":8000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 15 * time.Second,
		},
		Logger:     logger.DefaultConfig(),
		Metrics:    metrics.DefaultConfig(),
		Tracer:     tracer.DefaultConfig(),
		Qdrant:     *qdrant.DefaultConfig(),
		Embedding:  embedding.DefaultConfig(),
		Vibe:       vibe.DefaultConfig(),
		QueryParse: queryparse.DefaultConfig(),
		Search:     search.DefaultConfig(),
		Ingest:     ingest.DefaultConfig(),
		Redis:      redis.DefaultConfig(),
		Kafka:      kafka.DefaultConfig(),
	}
}

// explicit environment bindings on top of the automatic KEY_PATH mapping
var envAliases = map[string][]string{
	"embedding.openai.api_key":   {"OPENAI_API_KEY"},
	"embedding.openai.base_url":  {"OPENAI_BASE_URL"},
	"vibe.api_key":               {"OPENAI_API_KEY"},
	"vibe.base_url":              {"OPENAI_BASE_URL"},
	"queryparse.api_key":         {"OPENAI_API_KEY"},
	"queryparse.base_url":        {"OPENAI_BASE_URL"},
	"embedding.colbert.endpoint": {"COLBERT_ENDPOINT", "INFINITY_ENDPOINT"},
	"embedding.colbert.token":    {"COLBERT_TOKEN", "INFINITY_TOKEN"},
	"app.env":                    {"APP_ENV", "ENV"},
	"app.cdn_url":                {"CDN_URL"},
	"tracer.app_env":             {"APP_ENV", "ENV"},
	"qdrant.api_key":             {"QDRANT_API_KEY"},
	"kafka.brokers":              {"KAFKA_BROKERS"},
}

// Load reads the YAML file at path, when path is not empty, and the
// environment into a validated Config.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("[Config] bind %s: %w", key, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("[Config] read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("[Config] decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := profile.ParseEnvironment(c.App.Env); err != nil {
		return fmt.Errorf("[Config] app.env: %w", err)
	}
	if _, err := vectordb.ParseVectorKind(c.Qdrant.VibeReportKind); err != nil {
		return fmt.Errorf("[Config] qdrant.vibe_report_kind: %w", err)
	}
	if _, err := ingest.ParseVibePolicy(string(c.Ingest.VibePolicy)); err != nil {
		return fmt.Errorf("[Config] ingest.vibe_policy: %w", err)
	}
	if c.Search.MaxLimit > 0 && c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("[Config] search.default_limit %d exceeds search.max_limit %d", c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("[Config] kafka.enabled requires kafka.brokers")
	}
	return nil
}

// Environment returns the parsed app.env.
func (c *Config) Environment() profile.Environment {
	env, err := profile.ParseEnvironment(c.App.Env)
	if err != nil {
		return profile.Development
	}
	return env
}

func (c *Config) CDN() profile.CDNConfig {
	return profile.NewCDNConfig(c.Environment(), c.App.CDNURL)
}

// Schema is the profile collection layout selected by the qdrant section.
func (c *Config) Schema() vectordb.Schema {
	kind, err := vectordb.ParseVectorKind(c.Qdrant.VibeReportKind)
	if err != nil {
		kind = vectordb.MultiVector
	}
	return profile.Schema(c.Qdrant.Collection, kind)
}

// Options supplies every section, the collection schema and the profile
// normalizer to an fx graph.
func (c *Config) Options() fx.Option {
	return fx.Options(
		fx.Supply(
			c.Logger,
			c.Metrics,
			c.Tracer,
			&c.Qdrant,
			c.Embedding,
			c.Vibe,
			c.QueryParse,
			c.Search,
			c.Ingest,
			c.Redis,
			c.Kafka,
		),
		fx.Provide(
			c.Schema,
			c.CDN,
			profile.NewNormalizer,
		),
	)
}
