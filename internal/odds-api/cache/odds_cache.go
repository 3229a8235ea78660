package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache struct{ R *redis.Client }

func New(r *redis.Client) *Cache { return &Cache{R: r} }

func keyFeed(source string) string { return "odds:feed:" + source }

// GetFeed busca a resposta de feed cacheada pra fonte pedida
func (c *Cache) GetFeed(ctx context.Context, source string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, keyFeed(source)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *Cache) SetFeed(ctx context.Context, source string, v any, ttl time.Duration) error {
	b, _ := json.Marshal(v)
	return c.R.Set(ctx, keyFeed(source), b, ttl).Err()
}
