package utils

import (
	"context"
	"fmt"
	"time"

	"receptionist/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient backs the distance cache.
	CacheClient *redis.Client
	// SessionClient holds per-call quotes and quote counters.
	SessionClient *redis.Client
)

func newRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis db %d: %w", db, err)
	}
	return client, nil
}

// InitCache connects the cache and session clients.
func InitCache() error {
	var err error
	if CacheClient, err = newRedisClient(config.AppConfig.RedisCacheDB); err != nil {
		return err
	}
	if SessionClient, err = newRedisClient(config.AppConfig.RedisSessionDB); err != nil {
		return err
	}
	return nil
}

// RedisClients returns the connected clients for health monitoring.
func RedisClients() []*redis.Client {
	var out []*redis.Client
	for _, c := range []*redis.Client{CacheClient, SessionClient} {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}
