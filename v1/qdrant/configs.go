package qdrant

import (
	"time"
)

// Config holds connection and collection settings.
//
// Example (builder style):
//
//	cfg := qdrant.FromEndpoint("localhost").
//	    WithApiKey(os.Getenv("QDRANT_API_KEY")).
//	    WithCollection("matrimonial_profiles")
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost".
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" env:"QDRANT_ENDPOINT"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `yaml:"port" mapstructure:"port" env:"QDRANT_PORT"`

	ApiKey string `yaml:"api_key" mapstructure:"api_key" env:"QDRANT_API_KEY"`

	// UseTLS enables TLS for cloud deployments.
	UseTLS bool `yaml:"use_tls" mapstructure:"use_tls" env:"QDRANT_USE_TLS"`

	// Collection holding profile points.
	Collection string `yaml:"collection" mapstructure:"collection" env:"QDRANT_COLLECTION"`

	// VibeReportKind is "multivector" (default) or "dense".
	VibeReportKind string `yaml:"vibe_report_kind" mapstructure:"vibe_report_kind" env:"QDRANT_VIBE_REPORT_KIND"`

	// Maximum request duration before timing out.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" env:"QDRANT_TIMEOUT"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `yaml:"check_compatibility" mapstructure:"check_compatibility" env:"QDRANT_CHECK_COMPATIBILITY"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:           "localhost",
		Port:               6334,
		Collection:         "matrimonial_profiles",
		VibeReportKind:     "multivector",
		Timeout:            10 * time.Second,
		CheckCompatibility: false,
	}
}

// FromEndpoint returns a default config pre-filled with a specific endpoint.
func FromEndpoint(host string) *Config {
	cfg := DefaultConfig()
	cfg.Endpoint = host
	return cfg
}

func (c *Config) WithApiKey(key string) *Config {
	c.ApiKey = key
	return c
}

func (c *Config) WithPort(port int) *Config {
	c.Port = port
	return c
}

func (c *Config) WithCollection(name string) *Config {
	c.Collection = name
	return c
}

func (c *Config) WithTimeout(d time.Duration) *Config {
	c.Timeout = d
	return c
}

func (c *Config) WithCompatibilityCheck(enabled bool) *Config {
	c.CheckCompatibility = enabled
	return c
}
