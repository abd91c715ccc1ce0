package distance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const distanceCachePrefix = "dist:"

// CachedProvider serves repeated pairs from redis and forwards the misses as one batch.
// Only OK results are cached.
type CachedProvider struct {
	next   Provider
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProvider(next Provider, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{next: next, client: client, ttl: ttl, logger: logger}
}

func (c *CachedProvider) BatchDistances(ctx context.Context, reqs []Request) ([]Result, error) {
	results := make([]Result, len(reqs))
	var missIdx []int
	var misses []Request

	for i, r := range reqs {
		cached, err := c.lookup(ctx, r)
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				c.logger.Warn("distance cache read failed", zap.Error(err))
			}
			missIdx = append(missIdx, i)
			misses = append(misses, r)
			continue
		}
		results[i] = *cached
	}
	if len(misses) == 0 {
		return results, nil
	}

	fetched, err := c.next.BatchDistances(ctx, misses)
	if err != nil {
		return nil, err
	}
	for j, res := range fetched {
		results[missIdx[j]] = res
		if res.Status == StatusOK {
			c.store(ctx, misses[j], res)
		}
	}
	return results, nil
}

func (c *CachedProvider) lookup(ctx context.Context, r Request) (*Result, error) {
	data, err := c.client.Get(ctx, cacheKey(r)).Bytes()
	if err != nil {
		return nil, err
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *CachedProvider) store(ctx context.Context, r Request, res Result) {
	b, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(r), b, c.ttl).Err(); err != nil {
		c.logger.Warn("distance cache write failed", zap.Error(err))
	}
}

func cacheKey(r Request) string {
	return distanceCachePrefix + normalizeAddress(r.Origin) + "|" + normalizeAddress(r.Destination) + "|" + r.Units
}
