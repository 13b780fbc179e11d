package vrp

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss is returned by ResultCache.Get when the key is absent.
var ErrCacheMiss = errors.New("vrp: cache miss")

// ResultCache memoises a solve's Result in Redis, keyed by RequestHash. A
// solve is pure and deterministic given an explicit seed (spec §5, §8
// invariant 6), so a repeated request with the same seed can be served from
// cache instead of re-run.
type ResultCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewResultCache builds a ResultCache. ttl <= 0 means entries never expire.
func NewResultCache(client *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{client: client, prefix: "vrp:solve:", ttl: ttl}
}

// RequestHash derives a stable cache key from a Request's fields that
// determine its solution deterministically: the solver ignores Seed==0
// (it falls back to the wall clock), so a zero seed never hits the cache.
func RequestHash(req *Request) (string, bool) {
	if req.Seed == 0 {
		return "", false
	}
	data, err := json.Marshal(req)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), true
}

// Get retrieves a cached Result, or ErrCacheMiss if absent.
func (c *ResultCache) Get(ctx context.Context, key string) (*Result, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("result cache get: %w", err)
	}

	var result Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("result cache unmarshal: %w", err)
	}
	return &result, nil
}

// Set stores a Result under key.
func (c *ResultCache) Set(ctx context.Context, key string, result *Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("result cache marshal: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("result cache set: %w", err)
	}
	return nil
}
