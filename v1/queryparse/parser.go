package queryparse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/search"
)

var ErrEmptyAnswer = errors.New("queryparse: empty model answer")

var _ search.QueryParser = (*Parser)(nil)

// Parser asks a chat model to split a query into sub-queries and filters.
type Parser struct {
	model    llms.Model
	logger   logger.Logger
	observer observability.Observer
}

// NewParser creates an OpenAI-backed parser.
func NewParser(cfg Config, log logger.Logger) (*Parser, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("queryparse: missing OPENAI_API_KEY")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
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
		return nil, fmt.Errorf("queryparse: create openai client: %w", err)
	}
	return NewParserWithModel(client, log), nil
}

func NewParserWithModel(model llms.Model, log logger.Logger) *Parser {
	if log == nil {
		log = logger.NewNop()
	}
	return &Parser{model: model, logger: log}
}

func (p *Parser) WithObserver(o observability.Observer) *Parser {
	p.observer = o
	return p
}

// Parse implements search.QueryParser. A blank query returns an empty
// result without calling the model.
func (p *Parser) Parse(ctx context.Context, query string) (*search.ParsedQuery, error) {
	if strings.TrimSpace(query) == "" {
		return &search.ParsedQuery{}, nil
	}

	start := time.Now()
	resp, err := p.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, fmt.Sprintf(userPromptTemplate, query)),
	},
		llms.WithTemperature(0),
		llms.WithJSONMode(),
	)
	if err == nil && len(resp.Choices) == 0 {
		err = ErrEmptyAnswer
	}
	if err != nil {
		p.observe(start, err)
		p.logger.WarnWithContext(ctx, "query parsing failed", err, map[string]interface{}{"query": query})
		return nil, fmt.Errorf("queryparse: generate: %w", err)
	}

	parsed, err := Decode(resp.Choices[0].Content)
	p.observe(start, err)
	if err != nil {
		p.logger.WarnWithContext(ctx, "query parser answer rejected", err, map[string]interface{}{"query": query})
		return nil, err
	}

	p.logger.DebugWithContext(ctx, "query parsed", nil, map[string]interface{}{
		"query":      query,
		"education":  parsed.EducationQuery,
		"profession": parsed.ProfessionQuery,
		"vibe":       parsed.VibeReportQuery,
		"filters":    len(parsed.Filters.Active()),
	})
	return parsed, nil
}

// Decode reads a model answer, tolerating markdown code fences. Null
// filters decode as unset.
func Decode(text string) (*search.ParsedQuery, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed search.ParsedQuery
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("queryparse: decode answer: %w", err)
	}
	parsed.EducationQuery = strings.TrimSpace(parsed.EducationQuery)
	parsed.ProfessionQuery = strings.TrimSpace(parsed.ProfessionQuery)
	parsed.VibeReportQuery = strings.TrimSpace(parsed.VibeReportQuery)
	return &parsed, nil
}

func (p *Parser) observe(start time.Time, err error) {
	if p.observer == nil {
		return
	}
	p.observer.ObserveOperation(observability.OperationContext{
		Component: "queryparse",
		Operation: "parse",
		Duration:  time.Since(start),
		Error:     err,
	})
}
