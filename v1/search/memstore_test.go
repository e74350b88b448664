package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/verona-ai/profilesearch/v1/profile"
	"github.com/verona-ai/profilesearch/v1/vectordb"
)

// memStore evaluates filter sets against in-memory payloads. Query scores
// come from a fixed table keyed by external id.
type memStore struct {
	vectordb.Store

	mu     sync.Mutex
	points []vectordb.Point
	scores map[string]float32

	// failCount makes Count fail for matching filter sets.
	failCount func(*vectordb.FilterSet) bool

	counts int
	plans  []vectordb.QueryPlan
}

func newMemStore() *memStore {
	return &memStore{scores: map[string]float32{}}
}

func (m *memStore) add(id string, score float32, payload map[string]any) {
	p := map[string]any{"id": id, "is_circulateable": true}
	for k, v := range payload {
		p[k] = v
	}
	m.points = append(m.points, vectordb.Point{ID: profile.PointID(id), Payload: p})
	m.scores[id] = score
}

func (m *memStore) matching(fs *vectordb.FilterSet) []vectordb.Point {
	var out []vectordb.Point
	for _, p := range m.points {
		if matches(fs, p) {
			out = append(out, p)
		}
	}
	return out
}

func (m *memStore) Count(_ context.Context, fs *vectordb.FilterSet) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts++
	if m.failCount != nil && m.failCount(fs) {
		return 0, errors.New("count unavailable")
	}
	return len(m.matching(fs)), nil
}

func (m *memStore) Query(_ context.Context, plan vectordb.QueryPlan) ([]vectordb.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans = append(m.plans, plan)

	var hits []vectordb.SearchResult
	for _, p := range m.matching(plan.Filter) {
		score := m.scores[p.Payload["id"].(string)]
		if plan.ScoreThreshold > 0 && score < plan.ScoreThreshold {
			continue
		}
		hits = append(hits, vectordb.SearchResult{ID: p.ID, Score: score, Payload: p.Payload})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return page(hits, plan.Offset, plan.Limit), nil
}

func (m *memStore) Scroll(_ context.Context, req vectordb.ScrollRequest) ([]vectordb.SearchResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var hits []vectordb.SearchResult
	for _, p := range m.matching(req.Filter) {
		hits = append(hits, vectordb.SearchResult{ID: p.ID, Score: 1, Payload: p.Payload})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID < hits[j].ID })
	return page(hits, req.Offset, req.Limit), nil
}

func page(hits []vectordb.SearchResult, offset, limit int) []vectordb.SearchResult {
	if offset >= len(hits) {
		return []vectordb.SearchResult{}
	}
	hits = hits[offset:]
	if limit < len(hits) {
		hits = hits[:limit]
	}
	return hits
}

func matches(fs *vectordb.FilterSet, p vectordb.Point) bool {
	if fs == nil {
		return true
	}
	if fs.Must != nil {
		for _, c := range fs.Must.Conditions {
			if !holds(c, p) {
				return false
			}
		}
	}
	if fs.MustNot != nil {
		for _, c := range fs.MustNot.Conditions {
			if holds(c, p) {
				return false
			}
		}
	}
	if fs.Should != nil && len(fs.Should.Conditions) > 0 {
		for _, c := range fs.Should.Conditions {
			if holds(c, p) {
				return true
			}
		}
		return false
	}
	return true
}

func holds(c vectordb.FilterCondition, p vectordb.Point) bool {
	switch cond := c.(type) {
	case *vectordb.MatchCondition:
		return fmt.Sprint(p.Payload[cond.Field]) == fmt.Sprint(cond.Value)
	case *vectordb.MatchAnyCondition:
		v := fmt.Sprint(p.Payload[cond.Field])
		for _, want := range cond.Values {
			if v == fmt.Sprint(want) {
				return true
			}
		}
		return false
	case *vectordb.HasIDCondition:
		for _, id := range cond.IDs {
			if id == p.ID {
				return true
			}
		}
		return false
	case *vectordb.NumericRangeCondition:
		v, ok := number(p.Payload[cond.Field])
		if !ok {
			return false
		}
		r := cond.Range
		return (r.Gte == nil || v >= *r.Gte) && (r.Lte == nil || v <= *r.Lte) &&
			(r.Gt == nil || v > *r.Gt) && (r.Lt == nil || v < *r.Lt)
	case *vectordb.TimeRangeCondition:
		s, _ := p.Payload[cond.Field].(string)
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return false
		}
		return cond.Range.Gte == nil || !t.Before(*cond.Range.Gte)
	}
	return false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
