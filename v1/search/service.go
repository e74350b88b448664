package search

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/verona-ai/profilesearch/v1/embedding"
	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/tracer"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// Service executes searches against a profile store.
type Service struct {
	store    vectordb.Store
	gateway  embedding.Gateway
	schema   vectordb.Schema
	analyzer *Analyzer
	cfg      Config
	logger   logger.Logger

	parser   QueryParser
	tracer   *tracer.Tracer
	observer observability.Observer
}

func NewService(store vectordb.Store, gateway embedding.Gateway, schema vectordb.Schema, cfg Config, log logger.Logger) *Service {
	return &Service{
		store:    store,
		gateway:  gateway,
		schema:   schema,
		analyzer: NewAnalyzer(store),
		cfg:      cfg,
		logger:   log,
	}
}

// WithParser enables parsing of free-text queries.
func (s *Service) WithParser(p QueryParser) *Service {
	s.parser = p
	return s
}

func (s *Service) WithTracer(t *tracer.Tracer) *Service {
	s.tracer = t
	return s
}

func (s *Service) WithObserver(o observability.Observer) *Service {
	s.observer = o
	return s
}

// Analyzer exposes the filter-impact analyzer bound to the same store.
func (s *Service) Analyzer() *Analyzer {
	return s.analyzer
}

// Search runs one search. Sub-queries whose embedding fails are dropped; the
// request fails with ErrUnsatisfiable only when no vector and no filter
// remain. Store failures are returned as is. A failed filter analysis is
// logged and omitted.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	ctx, span := s.tracer.StartSpan(ctx, "search.Search")
	defer span.End()

	limit := s.cfg.clampLimit(req.Limit)
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	threshold := s.cfg.ScoreThreshold
	if req.ScoreThreshold != nil {
		threshold = *req.ScoreThreshold
	}

	parsed, filters := s.resolveQuery(ctx, req)

	pred := BuildPredicate(filters, req.SkipIDs)
	pred.Eligibility = !req.IncludeNonCirculateable

	queries := s.embedQueries(ctx, parsed.subQueries())

	mode := ModeSemantic
	if len(queries) == 0 {
		if !pred.HasUserFilters() {
			s.observe(ctx, "empty", start, 0, ErrUnsatisfiable)
			s.tracer.RecordErrorOnSpan(span, ErrUnsatisfiable)
			return nil, ErrUnsatisfiable
		}
		mode = ModeFilterOnly
	}

	fs := pred.FilterSet()

	var (
		results []vectordb.SearchResult
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if mode == ModeSemantic {
			results, err = s.store.Query(gctx, BuildPlan(queries, fs, limit, offset, s.cfg.PrefetchLimit, threshold))
		} else {
			results, err = s.store.Scroll(gctx, vectordb.ScrollRequest{Filter: fs, Limit: limit, Offset: offset})
		}
		if err != nil {
			return fmt.Errorf("[Search] %s: %w", mode, err)
		}
		return nil
	})
	g.Go(func() error {
		n, err := s.store.Count(gctx, fs)
		if err != nil {
			return fmt.Errorf("[Search] count: %w", err)
		}
		total = n
		return nil
	})
	if err := g.Wait(); err != nil {
		s.observe(ctx, string(mode), start, 0, err)
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	resp := &Response{
		Results:        results,
		TotalCount:     total,
		QueryMode:      mode,
		VectorsUsed:    vectorNames(queries),
		FiltersApplied: filters.Applied(),
		EmbeddingModel: s.cfg.EmbeddingModel,
	}
	if resp.Results == nil {
		resp.Results = []vectordb.SearchResult{}
	}
	if !parsed.IsEmpty() {
		resp.ParsedQueries = parsed
	}

	if s.analysisEnabled(req) && pred.HasUserFilters() {
		resp.FilterAnalysis = s.analyze(ctx, pred, total)
	}

	resp.SearchTimeMs = math.Round(float64(time.Since(start).Microseconds())/10) / 100

	s.tracer.SetAttributes(span, map[string]interface{}{
		"search.mode":         string(mode),
		"search.vectors":      resp.VectorsUsed,
		"search.filters":      len(pred.Filters),
		"search.limit":        limit,
		"search.offset":       offset,
		"search.total_count":  total,
		"search.result_count": len(results),
	})
	s.observe(ctx, string(mode), start, len(results), nil)
	return resp, nil
}

// AnalyzeFilterImpact runs the impact diagnostic on its own.
func (s *Service) AnalyzeFilterImpact(ctx context.Context, filters Filters, skipIDs []string, includeNonCirculateable bool) (*FilterAnalysis, error) {
	ctx, span := s.tracer.StartSpan(ctx, "search.FilterImpact")
	defer span.End()

	pred := BuildPredicate(filters, skipIDs)
	pred.Eligibility = !includeNonCirculateable
	if !pred.HasUserFilters() {
		total, err := s.store.Count(ctx, pred.FilterSet())
		if err != nil {
			s.tracer.RecordErrorOnSpan(span, err)
			return nil, fmt.Errorf("[Search] count: %w", err)
		}
		return &FilterAnalysis{
			Impacts:             []FilterImpact{},
			Recommendations:     []string{},
			TotalWithoutFilters: total,
			CurrentCount:        total,
		}, nil
	}

	analysis, err := s.analyzer.Analyze(ctx, pred, nil)
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}
	return analysis, nil
}

// SuggestExpansions proposes filters to remove so that at least minResults
// profiles match. Gating follows includeNonCirculateable as in
// AnalyzeFilterImpact.
func (s *Service) SuggestExpansions(ctx context.Context, filters Filters, skipIDs []string, includeNonCirculateable bool, minResults int) ([]Expansion, error) {
	pred := BuildPredicate(filters, skipIDs)
	pred.Eligibility = !includeNonCirculateable
	if !pred.HasUserFilters() {
		return []Expansion{}, nil
	}
	return s.analyzer.SuggestExpansions(ctx, pred, minResults)
}

// resolveQuery returns the sub-queries and the effective filters. Free text
// is parsed only when no sub-queries were given; explicit filters win over
// parsed ones key by key.
func (s *Service) resolveQuery(ctx context.Context, req Request) (*ParsedQueries, Filters) {
	if req.ParsedQueries != nil || req.Query == "" || s.parser == nil {
		return req.ParsedQueries, req.Filters
	}

	parsed, err := s.parser.Parse(ctx, req.Query)
	if err != nil {
		s.logger.WarnWithContext(ctx, "query parsing failed, searching without sub-queries", err, map[string]interface{}{
			"query": req.Query,
		})
		return nil, req.Filters
	}
	queries := parsed.ParsedQueries
	return &queries, Merge(parsed.Filters, req.Filters)
}

// embedQueries embeds the sub-queries concurrently and keeps the ones that
// succeed, in their original order.
func (s *Service) embedQueries(ctx context.Context, subs []subQuery) []EmbeddedQuery {
	if len(subs) == 0 {
		return nil
	}

	vectors := make([]*vectordb.Vector, len(subs))
	var wg sync.WaitGroup
	for i, sq := range subs {
		spec, ok := s.schema.Vector(sq.vector)
		if !ok {
			s.logger.WarnWithContext(ctx, "sub-query targets a vector missing from the schema", nil, map[string]interface{}{
				"vector": sq.vector,
			})
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := s.gateway.Embed(ctx, spec, sq.text)
			if err != nil {
				s.logger.WarnWithContext(ctx, "dropping sub-query after embedding failure", err, map[string]interface{}{
					"vector": sq.vector,
				})
				return
			}
			vectors[i] = &v
		}()
	}
	wg.Wait()

	out := make([]EmbeddedQuery, 0, len(subs))
	for i, v := range vectors {
		if v != nil {
			out = append(out, EmbeddedQuery{Vector: subs[i].vector, Value: *v})
		}
	}
	return out
}

func (s *Service) analysisEnabled(req Request) bool {
	if req.IncludeFilterAnalysis != nil {
		return *req.IncludeFilterAnalysis
	}
	return s.cfg.FilterAnalysis
}

func (s *Service) analyze(ctx context.Context, pred Predicate, current int) *FilterAnalysis {
	ctx, span := s.tracer.StartSpan(ctx, "search.FilterImpact")
	defer span.End()

	analysis, err := s.analyzer.Analyze(ctx, pred, &current)
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		s.logger.WarnWithContext(ctx, "filter analysis failed, omitting diagnostic", err, nil)
		if s.observer != nil {
			s.observer.ObserveOperation(observability.OperationContext{
				Component: "search",
				Operation: "filter_analysis",
				Error:     err,
			})
		}
		return nil
	}
	return analysis
}

func (s *Service) observe(_ context.Context, mode string, start time.Time, results int, err error) {
	if s.observer == nil {
		return
	}
	s.observer.ObserveOperation(observability.OperationContext{
		Component: "search",
		Operation: mode,
		Resource:  s.schema.Collection,
		Duration:  time.Since(start),
		Error:     err,
		Size:      int64(results),
	})
}

func vectorNames(queries []EmbeddedQuery) []string {
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		out = append(out, q.Vector)
	}
	return out
}
