package queryparse

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/verona-ai/profilesearch/v1/logger"
	"github.com/verona-ai/profilesearch/v1/observability"
	"github.com/verona-ai/profilesearch/v1/redis"
	"github.com/verona-ai/profilesearch/v1/search"
)

// Cache is the key-value store behind CachedParser.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) (int64, error)
}

var _ Cache = (redis.Client)(nil)

var _ search.QueryParser = (*CachedParser)(nil)

// CachedParser serves repeated queries from Redis. Cache failures never fail
// a parse; they fall through to the wrapped parser.
type CachedParser struct {
	next     search.QueryParser
	cache    Cache
	ttl      time.Duration
	logger   logger.Logger
	observer observability.Observer
}

func NewCachedParser(next search.QueryParser, cache Cache, ttl time.Duration, log logger.Logger) *CachedParser {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &CachedParser{next: next, cache: cache, ttl: ttl, logger: log}
}

func (c *CachedParser) WithObserver(o observability.Observer) *CachedParser {
	c.observer = o
	return c
}

// Parse implements search.QueryParser.
func (c *CachedParser) Parse(ctx context.Context, query string) (*search.ParsedQuery, error) {
	if strings.TrimSpace(query) == "" {
		return c.next.Parse(ctx, query)
	}
	key := CacheKey(query)

	start := time.Now()
	raw, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		var parsed search.ParsedQuery
		jerr := json.Unmarshal([]byte(raw), &parsed)
		if jerr == nil {
			c.observe(start, "hit", nil)
			return &parsed, nil
		}
		c.logger.WarnWithContext(ctx, "discarding undecodable parse cache entry", jerr, map[string]interface{}{"key": key})
		c.observe(start, "miss", nil)
	case redis.IsNilError(err):
		c.observe(start, "miss", nil)
	default:
		c.observe(start, "error", err)
		c.logger.WarnWithContext(ctx, "parse cache read failed", err, map[string]interface{}{"key": key})
	}

	parsed, err := c.next.Parse(ctx, query)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(parsed)
	if err != nil {
		return parsed, nil
	}
	if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
		c.logger.WarnWithContext(ctx, "parse cache write failed", err, map[string]interface{}{"key": key})
	}
	return parsed, nil
}

// Forget drops the cached parses of queries so the next Parse asks the LLM
// again. It returns how many entries existed. Blank queries are never cached
// and are skipped.
func Forget(ctx context.Context, cache Cache, queries ...string) (int64, error) {
	keys := make([]string, 0, len(queries))
	seen := make(map[string]bool, len(queries))
	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			continue
		}
		key := CacheKey(q)
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := cache.Delete(ctx, keys...)
	if err != nil {
		return 0, fmt.Errorf("forget cached parses: %w", err)
	}
	return n, nil
}

// CacheKey is the cache key of query: the MD5 of its trimmed, lower-cased,
// whitespace-collapsed form.
func CacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := md5.Sum([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedParser) observe(start time.Time, result string, err error) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveOperation(observability.OperationContext{
		Component: "querycache",
		Operation: "get",
		Resource:  cacheKeyPrefix,
		Duration:  time.Since(start),
		Error:     err,
		Metadata:  map[string]interface{}{"result": result},
	})
}
