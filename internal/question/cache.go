package question

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultCacheTTL = 10 * time.Minute

// Cache provides Redis-backed question-set caching so repeated generations
// over the same source content skip the bank/LLM round trip.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ SetCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// key hashes the source content so arbitrarily large documents produce a
// bounded cache key.
func (c *Cache) key(req SetRequest) string {
	sum := sha256.Sum256([]byte(req.Content))
	return strings.Join([]string{
		"questionset",
		hex.EncodeToString(sum[:8]),
		req.Difficulty,
		fmt.Sprint(req.Count),
		req.Topic,
	}, ":")
}

func (c *Cache) Get(ctx context.Context, req SetRequest) ([]Question, error) {
	data, err := c.client.Get(ctx, c.key(req)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (c *Cache) Set(ctx context.Context, req SetRequest, questions []Question) error {
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(req), data, c.ttl).Err()
}
