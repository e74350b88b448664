package queryparse

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/redis"
	"github.com/verona-ai/profilesearch/v1/search"
)

type memCache struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
	delErr error
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) (int64, error) {
	if m.delErr != nil {
		return 0, m.delErr
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

type countingParser struct {
	calls int
	err   error
}

func (p *countingParser) Parse(_ context.Context, query string) (*search.ParsedQuery, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &search.ParsedQuery{ParsedQueries: search.ParsedQueries{ProfessionQuery: query}}, nil
}

func TestCachedParserMissThenHit(t *testing.T) {
	cache := newMemCache()
	next := &countingParser{}
	var results []string
	cp := NewCachedParser(next, cache, time.Hour, nil).WithObserver(observability.ObserverFunc(func(op observability.OperationContext) {
		results = append(results, op.Metadata["result"].(string))
	}))

	first, err := cp.Parse(context.Background(), "Doctor")
	require.NoError(t, err)
	second, err := cp.Parse(context.Background(), "  doctor ")
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first.ProfessionQuery, second.ProfessionQuery)
	assert.Equal(t, []string{"miss", "hit"}, results)
	assert.Equal(t, time.Hour, cache.ttls[CacheKey("doctor")])
}

func TestCachedParserFallsThroughOnCacheFailure(t *testing.T) {
	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	next := &countingParser{}
	cp := NewCachedParser(next, cache, 0, nil)

	parsed, err := cp.Parse(context.Background(), "engineer")
	require.NoError(t, err)
	assert.Equal(t, "engineer", parsed.ProfessionQuery)
	assert.Equal(t, 1, next.calls)
}

func TestCachedParserDoesNotCacheFailures(t *testing.T) {
	cache := newMemCache()
	next := &countingParser{err: errors.New("model down")}
	cp := NewCachedParser(next, cache, time.Hour, nil)

	_, err := cp.Parse(context.Background(), "engineer")
	require.Error(t, err)
	assert.Empty(t, cache.data)
}

func TestCachedParserIgnoresCorruptEntry(t *testing.T) {
	cache := newMemCache()
	cache.data[CacheKey("engineer")] = "{"
	next := &countingParser{}
	cp := NewCachedParser(next, cache, time.Hour, nil)

	parsed, err := cp.Parse(context.Background(), "engineer")
	require.NoError(t, err)
	assert.Equal(t, "engineer", parsed.ProfessionQuery)
	assert.Equal(t, 1, next.calls)
	assert.NotEqual(t, "{", cache.data[CacheKey("engineer")])
}

func TestCacheKeyNormalizes(t *testing.T) {
	assert.Equal(t, CacheKey("IIT  Graduate"), CacheKey(" iit graduate"))
	assert.NotEqual(t, CacheKey("iit graduate"), CacheKey("iim graduate"))
	assert.Len(t, CacheKey("x"), len(cacheKeyPrefix)+32)
}

func TestForgetDropsCachedParse(t *testing.T) {
	cache := newMemCache()
	next := &countingParser{}
	cp := NewCachedParser(next, cache, time.Hour, nil)

	_, err := cp.Parse(context.Background(), "Doctor in Berlin")
	require.NoError(t, err)
	_, err = cp.Parse(context.Background(), "pilot")
	require.NoError(t, err)
	require.Equal(t, 2, next.calls)

	n, err := Forget(context.Background(), cache, "  doctor IN berlin", "doctor in berlin", "", "unknown")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NotContains(t, cache.data, CacheKey("doctor in berlin"))
	assert.Contains(t, cache.data, CacheKey("pilot"))

	_, err = cp.Parse(context.Background(), "doctor in berlin")
	require.NoError(t, err)
	assert.Equal(t, 3, next.calls)
}

func TestForgetWithoutQueriesSkipsCache(t *testing.T) {
	cache := newMemCache()
	cache.delErr = errors.New("must not be called")

	n, err := Forget(context.Background(), cache, " ", "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestForgetWrapsCacheError(t *testing.T) {
	cache := newMemCache()
	cache.delErr = errors.New("connection refused")

	_, err := Forget(context.Background(), cache, "doctor")
	require.Error(t, err)
	assert.ErrorIs(t, err, cache.delErr)
}
