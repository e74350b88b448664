package search

const (
	DefaultLimit         = 100
	DefaultMaxLimit      = 200
	DefaultPrefetchLimit = 1000
)

// Config bounds pagination and candidate retrieval.
type Config struct {
	DefaultLimit int `yaml:"default_limit" mapstructure:"default_limit"`
	MaxLimit     int `yaml:"max_limit" mapstructure:"max_limit"`

	// PrefetchLimit is the number of candidates each named vector contributes
	// to fusion. The store raises it to limit+offset when that is larger.
	PrefetchLimit int `yaml:"prefetch_limit" mapstructure:"prefetch_limit"`

	// ScoreThreshold applies when a request does not set its own.
	ScoreThreshold float32 `yaml:"score_threshold" mapstructure:"score_threshold"`

	// FilterAnalysis enables the per-filter impact diagnostic by default.
	FilterAnalysis bool `yaml:"filter_analysis" mapstructure:"filter_analysis"`

	// EmbeddingModel is reported back in responses.
	EmbeddingModel string `yaml:"embedding_model" mapstructure:"embedding_model"`
}

func DefaultConfig() Config {
	return Config{
		DefaultLimit:   DefaultLimit,
		MaxLimit:       DefaultMaxLimit,
		PrefetchLimit:  DefaultPrefetchLimit,
		FilterAnalysis: true,
		EmbeddingModel: "openai+colbert",
	}
}

func (c Config) clampLimit(limit int) int {
	if limit <= 0 {
		limit = c.DefaultLimit
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if c.MaxLimit > 0 && limit > c.MaxLimit {
		limit = c.MaxLimit
	}
	return limit
}
