package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ColBERTProvider is a MultiEmbedder that calls a BGE-M3 inference service.
//
// Request:  POST {endpoint}/embeddings/colbert {"model": "...", "input": ["..."]}
// Response: {"data": [{"embedding": [[...], [...]]}]}
type ColBERTProvider struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

// NewColBERTProvider validates cfg and prepares the HTTP client.
func NewColBERTProvider(cfg ColBERTConfig) (*ColBERTProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("inference: missing COLBERT_ENDPOINT")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = DefaultColBERTModel
	}

	return &ColBERTProvider{
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.Token,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// EmbedMulti implements MultiEmbedder.
func (p *ColBERTProvider) EmbedMulti(ctx context.Context, text string) ([][]float32, error) {
	reqBody := map[string]any{
		"model": p.model,
		"input": []string{text},
	}

	var parsed struct {
		Data []struct {
			Embedding [][]float32 `json:"embedding"`
		} `json:"data"`
	}

	if err := p.postJSON(ctx, p.baseURL+"/embeddings/colbert", reqBody, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, fmt.Errorf("inference: colbert empty data")
	}
	return parsed.Data[0].Embedding, nil
}

// postJSON sends body as JSON and decodes the response into out. Any non-2xx
// status is an error.
func (p *ColBERTProvider) postJSON(ctx context.Context, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d for %s: %s", resp.StatusCode, url, strings.TrimSpace(string(msg)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
