package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/urfave/cli/v2"

	"github.com/verona-ai/profilesearch/v1/ingest"
	"github.com/verona-ai/profilesearch/v1/kafka"
	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/queryparse"
	"github.com/verona-ai/profilesearch/v1/redis"
	"github.com/verona-ai/profilesearch/v1/search"
)

func createCollectionCommand(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}

	created, err := e.store.EnsureSchema(c.Context, c.Bool("recreate"))
	if err != nil {
		return err
	}
	if created {
		fmt.Fprintf(c.App.Writer, "collection %s created\n", e.schema.Collection)
	} else {
		fmt.Fprintf(c.App.Writer, "collection %s already exists\n", e.schema.Collection)
	}
	return nil
}

// ingestSummary counts outcomes of a bulk ingest.
type ingestSummary struct {
	mu       sync.Mutex
	Total    int            `json:"total"`
	Failed   int            `json:"failed"`
	Outcomes map[string]int `json:"outcomes"`
	Errors   []string       `json:"errors,omitempty"`
	Elapsed  string         `json:"elapsed"`
}

func (s *ingestSummary) record(id string, res *ingest.Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Total++
	if err != nil {
		s.Failed++
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", id, err))
		return
	}
	s.Outcomes[string(res.Outcome)]++
}

// bulkIngest runs every raw profile through ing on a pool of workers.
func bulkIngest(ctx context.Context, ing kafka.Ingester, raws []*profile.RawProfile, workers int) (*ingestSummary, error) {
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	start := time.Now()
	summary := &ingestSummary{Outcomes: map[string]int{}}
	var wg sync.WaitGroup
	for _, raw := range raws {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			res, err := ing.Ingest(ctx, raw)
			summary.record(raw.ID, res, err)
		}); err != nil {
			wg.Done()
			summary.record(raw.ID, nil, err)
		}
	}
	wg.Wait()
	summary.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return summary, nil
}

func ingestCommand(c *cli.Context) error {
	raws, err := readProfiles(c.String("file"))
	if err != nil {
		return err
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}
	orch, err := e.orchestrator()
	if err != nil {
		return err
	}

	summary, err := bulkIngest(c.Context, orch, raws, c.Int("workers"))
	if err != nil {
		return err
	}
	if err := printJSON(c, summary); err != nil {
		return err
	}
	if summary.Failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d profiles failed", summary.Failed, summary.Total), 2)
	}
	return nil
}

func publishCommand(c *cli.Context) error {
	raws, err := readProfiles(c.String("file"))
	if err != nil {
		return err
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	kcfg := e.cfg.Kafka
	kcfg.IsConsumer = false
	producer, err := kafka.NewClient(kcfg, e.log)
	if err != nil {
		return err
	}
	defer producer.Close()

	for _, raw := range raws {
		body, err := json.Marshal(raw)
		if err != nil {
			return err
		}
		if err := producer.Publish(c.Context, raw.ID, body, nil); err != nil {
			return fmt.Errorf("publish %s: %w", raw.ID, err)
		}
	}
	fmt.Fprintf(c.App.Writer, "published %d profiles to %s\n", len(raws), kcfg.Topic)
	return nil
}

func searchCommand(c *cli.Context) error {
	filters, err := parseFilters(c.String("filters"))
	if err != nil {
		return err
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}
	svc, err := e.searchService()
	if err != nil {
		return err
	}

	resp, err := svc.Search(c.Context, search.Request{
		Query:                   c.String("query"),
		Filters:                 filters,
		Limit:                   c.Int("limit"),
		Offset:                  c.Int("offset"),
		IncludeNonCirculateable: c.Bool("include-non-circulateable"),
	})
	if err != nil {
		return err
	}
	return printJSON(c, resp)
}

func countCommand(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}

	pred := search.BuildPredicate(search.Filters{}, nil)
	pred.Eligibility = c.Bool("circulateable")
	n, err := e.store.Count(c.Context, pred.FilterSet())
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, n)
	return nil
}

func suggestCommand(c *cli.Context) error {
	filters, err := parseFilters(c.String("filters"))
	if err != nil {
		return err
	}

	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()
	if err := e.openStore(); err != nil {
		return err
	}
	svc, err := e.searchService()
	if err != nil {
		return err
	}

	ungated := c.Bool("include-non-circulateable")
	analysis, err := svc.AnalyzeFilterImpact(c.Context, filters, nil, ungated)
	if err != nil {
		return err
	}
	suggestions, err := svc.SuggestExpansions(c.Context, filters, nil, ungated, c.Int("min-results"))
	if err != nil {
		return err
	}
	return printJSON(c, map[string]any{
		"filter_analysis": analysis,
		"suggestions":     suggestions,
	})
}

func forgetQueryCommand(c *cli.Context) error {
	e, err := openEnv(c)
	if err != nil {
		return err
	}
	defer e.Close()

	client, err := redis.NewClient(e.cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	return forgetQueries(c, client.WithLogger(e.log), c.StringSlice("query"))
}

func forgetQueries(c *cli.Context, cache queryparse.Cache, queries []string) error {
	n, err := queryparse.Forget(c.Context, cache, queries...)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "dropped %d cached parse(s)\n", n)
	return nil
}
