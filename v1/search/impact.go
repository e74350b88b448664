package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/verona-ai/profilesearch/v1/vectordb"
)

const (
	// Below this many matches the analysis points at the strongest filters.
	fewResultsThreshold = 10
	// Only filters removing more than this share are called out.
	strongImpactPercentage   = 50.0
	maxStrongRecommendations = 2

	// DefaultMinResults is the target used by SuggestExpansions.
	DefaultMinResults = 10
)

// Analyzer computes filter impact with count-only store queries.
type Analyzer struct {
	store       vectordb.Store
	concurrency int
}

func NewAnalyzer(store vectordb.Store) *Analyzer {
	return &Analyzer{store: store, concurrency: 8}
}

// Analyze counts the matches of pred, of pred without each user filter and
// of pred without any user filter. When current is non-nil it is used as the
// count with all filters and that query is skipped. Impacts are sorted by
// removed count, largest first.
func (a *Analyzer) Analyze(ctx context.Context, pred Predicate, current *int) (*FilterAnalysis, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	var total, currentCount int
	g.Go(func() error {
		n, err := a.store.Count(gctx, pred.Base().FilterSet())
		if err != nil {
			return fmt.Errorf("[Search] count without filters: %w", err)
		}
		total = n
		return nil
	})
	if current != nil {
		currentCount = *current
	} else {
		g.Go(func() error {
			n, err := a.store.Count(gctx, pred.FilterSet())
			if err != nil {
				return fmt.Errorf("[Search] count with filters: %w", err)
			}
			currentCount = n
			return nil
		})
	}

	without := make([]int, len(pred.Filters))
	single := len(pred.Filters) == 1
	if !single {
		for i, f := range pred.Filters {
			g.Go(func() error {
				n, err := a.store.Count(gctx, pred.Without(f.Key).FilterSet())
				if err != nil {
					return fmt.Errorf("[Search] count without %s: %w", f.Key, err)
				}
				without[i] = n
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if single {
		without[0] = total
	}

	analysis := &FilterAnalysis{
		Impacts:             make([]FilterImpact, 0, len(pred.Filters)),
		Recommendations:     []string{},
		TotalWithoutFilters: total,
		CurrentCount:        currentCount,
	}
	for i, f := range pred.Filters {
		removed := without[i] - currentCount
		if removed < 0 {
			removed = 0
		}
		pct := 0.0
		if without[i] > 0 {
			pct = math.Round(float64(removed)/float64(without[i])*1000) / 10
		}
		analysis.Impacts = append(analysis.Impacts, FilterImpact{
			Filter:           f.Key,
			Value:            f.Value,
			CountWith:        currentCount,
			CountWithout:     without[i],
			RemovedCount:     removed,
			ImpactPercentage: pct,
		})
	}
	sort.SliceStable(analysis.Impacts, func(i, j int) bool {
		return analysis.Impacts[i].RemovedCount > analysis.Impacts[j].RemovedCount
	})
	analysis.Recommendations = recommendations(analysis.Impacts, currentCount)
	return analysis, nil
}

func recommendations(impacts []FilterImpact, current int) []string {
	out := []string{}
	if len(impacts) == 0 {
		return out
	}

	if current == 0 {
		top := impacts[0]
		return append(out, fmt.Sprintf(
			"Try removing the '%s' filter (currently set to %s) - this would show %d profiles",
			top.Filter, formatValue(top.Value), top.CountWithout,
		))
	}

	if current < fewResultsThreshold {
		for i, imp := range impacts {
			if i == maxStrongRecommendations {
				break
			}
			if imp.ImpactPercentage > strongImpactPercentage {
				out = append(out, fmt.Sprintf(
					"The '%s' filter is removing %.1f%% of potential matches",
					imp.Filter, imp.ImpactPercentage,
				))
			}
		}
	}
	return out
}

// SuggestExpansions proposes filters to drop, strongest first, until the
// expected count reaches minResults. Nothing is proposed when pred already
// matches minResults profiles.
func (a *Analyzer) SuggestExpansions(ctx context.Context, pred Predicate, minResults int) ([]Expansion, error) {
	if minResults <= 0 {
		minResults = DefaultMinResults
	}
	analysis, err := a.Analyze(ctx, pred, nil)
	if err != nil {
		return nil, err
	}
	return expansions(analysis, minResults), nil
}

func expansions(analysis *FilterAnalysis, minResults int) []Expansion {
	out := []Expansion{}
	if analysis.CurrentCount >= minResults {
		return out
	}
	cumulative := analysis.CurrentCount
	for _, imp := range analysis.Impacts {
		if cumulative >= minResults {
			break
		}
		if imp.CountWithout > cumulative {
			out = append(out, Expansion{
				Action:        "remove",
				Filter:        imp.Filter,
				ExpectedCount: imp.CountWithout,
			})
			cumulative = imp.CountWithout
		}
	}
	return out
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []string:
		return "[" + strings.Join(val, ", ") + "]"
	case float64:
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprint(val)
	}
}
