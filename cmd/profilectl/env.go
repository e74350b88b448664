package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/verona-ai/profilesearch/v1/config"
	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/ingest"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/qdrant"
	"github.com/verona-ai/profilesearch/v1/queryparse"
	"github.com/verona-ai/profilesearch/v1/search"
	"github.com/verona-ai/profilesearch/v1/vectordb"
	"github.com/verona-ai/profilesearch/v1/vibe"
)

// env holds what a command needs. Each command opens only the parts it uses.
type env struct {
	cfg    *config.Config
	log    *logger.LoggerClient
	schema vectordb.Schema

	client *qdrant.QdrantClient
	store  *qdrant.ProfileStore
}

func openEnv(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:    cfg,
		log:    logger.NewLoggerClient(cfg.Logger),
		schema: cfg.Schema(),
	}, nil
}

func (e *env) openStore() error {
	client, err := qdrant.NewQdrantClient(qdrant.QdrantParams{Config: &e.cfg.Qdrant})
	if err != nil {
		return err
	}
	e.client = client
	e.store = qdrant.NewProfileStore(client, e.schema)
	return nil
}

func (e *env) gateway() (embedding.Gateway, error) {
	return embedding.NewGatewayFromConfig(embedding.GatewayParams{Config: e.cfg.Embedding, Schema: e.schema})
}

func (e *env) orchestrator() (*ingest.Orchestrator, error) {
	gw, err := e.gateway()
	if err != nil {
		return nil, err
	}

	var gen vibe.Generator
	if e.cfg.Ingest.GenerateVibe && e.cfg.Vibe.APIKey != "" {
		llm, err := vibe.NewLLMGenerator(e.cfg.Vibe)
		if err != nil {
			return nil, err
		}
		gen = llm
	}

	normalizer := profile.NewNormalizer(e.cfg.CDN())
	return ingest.NewOrchestrator(e.store, gw, gen, normalizer, e.schema, e.cfg.Ingest, e.log), nil
}

func (e *env) searchService() (*search.Service, error) {
	gw, err := e.gateway()
	if err != nil {
		return nil, err
	}
	svc := search.NewService(e.store, gw, e.schema, e.cfg.Search, e.log)
	if e.cfg.QueryParse.APIKey != "" {
		parser, err := queryparse.NewParser(e.cfg.QueryParse, e.log)
		if err != nil {
			return nil, err
		}
		svc.WithParser(parser)
	}
	return svc, nil
}

func (e *env) Close() {
	if e.client != nil {
		_ = e.client.Close()
	}
	_ = e.log.Zap.Sync()
}

// readProfiles decodes a JSON array of raw profiles.
func readProfiles(path string) ([]*profile.RawProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raws []*profile.RawProfile
	if err := json.NewDecoder(f).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return raws, nil
}

func parseFilters(s string) (search.Filters, error) {
	var f search.Filters
	if s == "" {
		return f, nil
	}
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return f, fmt.Errorf("--filters: %w", err)
	}
	return f, nil
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
