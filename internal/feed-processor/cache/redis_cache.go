package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/nba-odds-feed/pkg/contracts/events"
)

// RedisCache encapsula o cache de snapshots atuais no Redis
// Client: cliente Redis
// TTL: tempo de expiração dos registros
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewRedisCache cria uma instância de cache Redis com TTL configurável
func NewRedisCache(c *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: c, TTL: ttl}
}

// key gera a chave Redis do snapshot atual de um jogo
func key(gameID string) string { return "odds:current:" + gameID }

// SetCurrent armazena o snapshot atual de um jogo no Redis com TTL definido
func (r *RedisCache) SetCurrent(ctx context.Context, g events.GameSnapshot) error {
	b, err := json.Marshal(g)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, key(g.GameID), b, r.TTL).Err()
}
