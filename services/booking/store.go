package booking

import (
	"context"
	"encoding/json"
	"time"

	"receptionist/models"

	"github.com/go-redis/redis/v8"
)

const (
	quoteSessionPrefix = "quote:session:"
	quoteCounterPrefix = "quote:counter:"
)

// QuoteStore holds the current quote of a call until it is booked or superseded.
type QuoteStore interface {
	Get(ctx context.Context, callID string) (*models.QuoteResult, error)
	Save(ctx context.Context, callID string, quote *models.QuoteResult) error
	Clear(ctx context.Context, callID string) error
}

// QuoteCounter hands out the per-business sequence number used in quote ids.
type QuoteCounter interface {
	Next(ctx context.Context, businessID string) (int64, error)
}

type RedisQuoteStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuoteStore(client *redis.Client, ttl time.Duration) *RedisQuoteStore {
	return &RedisQuoteStore{client: client, ttl: ttl}
}

// Get returns ErrQuoteNotFound when the call has no live quote.
func (s *RedisQuoteStore) Get(ctx context.Context, callID string) (*models.QuoteResult, error) {
	data, err := s.client.Get(ctx, quoteSessionPrefix+callID).Result()
	if err == redis.Nil {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, err
	}
	var quote models.QuoteResult
	if err := json.Unmarshal([]byte(data), &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (s *RedisQuoteStore) Save(ctx context.Context, callID string, quote *models.QuoteResult) error {
	b, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, quoteSessionPrefix+callID, b, s.ttl).Err()
}

func (s *RedisQuoteStore) Clear(ctx context.Context, callID string) error {
	return s.client.Del(ctx, quoteSessionPrefix+callID).Err()
}

type RedisQuoteCounter struct {
	client *redis.Client
}

func NewRedisQuoteCounter(client *redis.Client) *RedisQuoteCounter {
	return &RedisQuoteCounter{client: client}
}

func (c *RedisQuoteCounter) Next(ctx context.Context, businessID string) (int64, error) {
	return c.client.Incr(ctx, quoteCounterPrefix+businessID).Result()
}
