package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Faroffcode/gst-zen-lovable-sub000/internal/application/dto"
)

const statementKeyPrefix = "ledger:statement:"

// RedisStatementCache caches ledger statements in Redis.
type RedisStatementCache struct {
	client *redis.Client
}

// NewRedisStatementCache connects a Redis-backed statement cache.
func NewRedisStatementCache(addr, password string, db int) *RedisStatementCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStatementCache{client: client}
}

func (c *RedisStatementCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisStatementCache) Close() error {
	return c.client.Close()
}

func (c *RedisStatementCache) Get(ctx context.Context, productID string) (*dto.LedgerStatementResponse, bool, error) {
	val, err := c.client.Get(ctx, statementKeyPrefix+productID).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var statement dto.LedgerStatementResponse
	if err := json.Unmarshal([]byte(val), &statement); err != nil {
		return nil, false, err
	}
	return &statement, true, nil
}

func (c *RedisStatementCache) Set(ctx context.Context, productID string, statement *dto.LedgerStatementResponse, ttl time.Duration) error {
	if statement == nil {
		return nil
	}
	payload, err := json.Marshal(statement)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statementKeyPrefix+productID, payload, ttl).Err()
}

func (c *RedisStatementCache) Invalidate(ctx context.Context, productID string) error {
	return c.client.Del(ctx, statementKeyPrefix+productID).Err()
}
