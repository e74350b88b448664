package vibe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ErrEmptyReport is returned when the model answers without a report body.
var ErrEmptyReport = errors.New("vibe: empty report")

// Config configures the LLMGenerator.
type Config struct {
	APIKey  string `yaml:"api_key" mapstructure:"api_key" env:"OPENAI_API_KEY"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url" env:"OPENAI_BASE_URL"`

	// Model must accept image inputs. Defaults to gpt-4o.
	Model string `yaml:"vision_model" mapstructure:"vision_model" env:"OPENAI_VISION_MODEL"`

	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens" env:"VIBE_MAX_TOKENS"`

	// IncludeImages attaches the photo URLs as image parts.
	IncludeImages bool `yaml:"include_images" mapstructure:"include_images" env:"VIBE_INCLUDE_IMAGES"`
}

func DefaultConfig() Config {
	return Config{Model: "gpt-4o", MaxTokens: 2000, IncludeImages: true}
}

// LLMGenerator is a Generator backed by an OpenAI-compatible chat model.
type LLMGenerator struct {
	client llms.Model
	cfg    Config
}

// NewLLMGenerator creates the langchaingo client.
func NewLLMGenerator(cfg Config) (*LLMGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("vibe: missing OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("vibe: create openai client: %w", err)
	}
	return NewGeneratorWithModel(client, cfg), nil
}

// NewGeneratorWithModel wraps an existing model, used by tests.
func NewGeneratorWithModel(model llms.Model, cfg Config) *LLMGenerator {
	return &LLMGenerator{client: model, cfg: cfg}
}

// Generate implements Generator.
func (g *LLMGenerator) Generate(ctx context.Context, in Input) (*Report, error) {
	content, err := g.messages(in)
	if err != nil {
		return nil, err
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.7),
		llms.WithMaxTokens(g.cfg.MaxTokens),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("vibe: generate: %w", err)
	}
	if len(response.Choices) < 1 {
		return nil, ErrEmptyReport
	}

	return ParseReport(response.Choices[0].Content)
}

func (g *LLMGenerator) messages(in Input) ([]llms.MessageContent, error) {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("vibe: encode input: %w", err)
	}

	parts := []llms.ContentPart{
		llms.TextPart("Generate a Vibe Map for this user:\n\n" + string(data)),
	}
	if g.cfg.IncludeImages {
		for _, ph := range in.Photos {
			if ph.URL != "" {
				parts = append(parts, llms.ImageURLPart(ph.URL))
			}
		}
	}

	return []llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextPart(systemPrompt)}},
		{Role: llms.ChatMessageTypeHuman, Parts: parts},
	}, nil
}

// ParseReport decodes a model answer, tolerating markdown code fences.
func ParseReport(text string) (*Report, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var r Report
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return nil, fmt.Errorf("vibe: decode report: %w", err)
	}
	if strings.TrimSpace(r.VibeReport) == "" {
		return nil, ErrEmptyReport
	}
	return &r, nil
}
