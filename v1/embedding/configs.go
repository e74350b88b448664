package embedding

import (
	"fmt"
	"time"
)

// Config groups both embedding backends.
type Config struct {
	OpenAI  OpenAIConfig  `yaml:"openai" mapstructure:"openai"`
	ColBERT ColBERTConfig `yaml:"colbert" mapstructure:"colbert"`
}

// OpenAIConfig configures the dense embedder.
type OpenAIConfig struct {
	// APIKey for the OpenAI-compatible API.
	APIKey string `yaml:"api_key" mapstructure:"api_key" env:"OPENAI_API_KEY"`

	// BaseURL overrides the API root. Empty means api.openai.com.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" env:"OPENAI_BASE_URL"`

	// EmbeddingModel defaults to text-embedding-3-small (1536 dimensions).
	EmbeddingModel string `yaml:"embedding_model" mapstructure:"embedding_model" env:"OPENAI_EMBEDDING_MODEL"`
}

// ColBERTConfig configures the late-interaction inference service.
type ColBERTConfig struct {
	// Endpoint is the service root; "/embeddings/colbert" is appended.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" env:"COLBERT_ENDPOINT"`

	// Token is sent as a bearer token when set.
	Token string `yaml:"token" mapstructure:"token" env:"COLBERT_TOKEN"`

	Model string `yaml:"model" mapstructure:"model" env:"COLBERT_MODEL"`

	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" env:"COLBERT_TIMEOUT"`
}

const (
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultColBERTModel   = "BAAI/bge-m3"
)

// DefaultConfig returns a Config with model defaults filled in.
func DefaultConfig() Config {
	return Config{
		OpenAI: OpenAIConfig{EmbeddingModel: DefaultEmbeddingModel},
		ColBERT: ColBERTConfig{
			Model:   DefaultColBERTModel,
			Timeout: 30 * time.Second,
		},
	}
}

// Validate ensures required fields are present. The ColBERT endpoint is
// optional when no vector is declared as multivector.
func (c Config) Validate(needsMulti bool) error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("embedding: missing OPENAI_API_KEY")
	}
	if needsMulti && c.ColBERT.Endpoint == "" {
		return fmt.Errorf("embedding: missing COLBERT_ENDPOINT")
	}
	return nil
}
