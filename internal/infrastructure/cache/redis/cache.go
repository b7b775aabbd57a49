// internal/infrastructure/cache/redis/cache.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultKeyPrefix префикс всех ключей бота
const DefaultKeyPrefix = "signalbot:"

type Cache struct {
	client *redis.Client
	prefix string
}

// NewCacheWithClient создает Cache с существующим клиентом
func NewCacheWithClient(client *redis.Client, prefix string) *Cache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

// Key полный ключ с префиксом
func (c *Cache) Key(key string) string {
	return c.prefix + key
}

// Set устанавливает значение в Redis с TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, c.Key(key), data, ttl).Err()
}

// Get получает значение из Redis
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, c.Key(key)).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

// Delete удаляет ключ из Redis
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.Key(key)).Err()
}

// CheckRateLimit счетчик запросов в фиксированном окне window.
// Срок жизни ставится только новому счетчику, поэтому окно не продлевается запросами.
func (c *Cache) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, int, error) {
	fullKey := c.Key("ratelimit:" + key)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	ttl := pipe.TTL(ctx, fullKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	// новый ключ или ключ, потерявший срок жизни
	if incr.Val() == 1 || ttl.Val() < 0 {
		if err := c.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return false, 0, err
		}
	}

	count := int(incr.Val())
	return count <= limit, count, nil
}

// IsMiss отсутствие ключа
func IsMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
