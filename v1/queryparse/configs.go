package queryparse

import "time"

const (
	DefaultModel    = "gpt-4o-mini"
	DefaultCacheTTL = 24 * time.Hour
	cacheKeyPrefix  = "parse:"
)

type Config struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" env:"OPENAI_BASE_URL"`
	Model   string `yaml:"chat_model" mapstructure:"chat_model" env:"OPENAI_CHAT_MODEL"`

	// CacheTTL bounds how long a parse result is reused. Zero disables the
	// cache.
	CacheTTL time.Duration `yaml:"parse_cache_ttl" mapstructure:"parse_cache_ttl" env:"PARSE_CACHE_TTL"`
}

func DefaultConfig() Config {
	return Config{Model: DefaultModel, CacheTTL: DefaultCacheTTL}
}
