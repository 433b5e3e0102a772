package dictionary

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultCacheTTL = 7 * 24 * time.Hour
	cachePrefix     = "wordstop:dict:"
)

// RedisCache remembers lookup results in Redis so repeated words across
// matches and processes skip the HTTP round trip. It fails open: any Redis
// error falls through to the wrapped lookup. Lookup errors are never cached.
type RedisCache struct {
	next   Lookup
	client redis.UniversalClient
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisCache wraps next with a cache on client. A ttl of zero selects the
// default of one week.
func NewRedisCache(next Lookup, client redis.UniversalClient, ttl time.Duration, logger zerolog.Logger) *RedisCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &RedisCache{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "dictionary_cache").Logger(),
	}
}

// DialRedis connects to addr and pings it. A failed ping returns an error so
// the caller can decide to run without the cache.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// Exists implements Lookup.
func (c *RedisCache) Exists(ctx context.Context, word string) (bool, error) {
	key := cachePrefix + Normalize(word)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return val == "1", nil
	case errors.Is(err, redis.Nil):
	default:
		c.logger.Debug().Err(err).Msg("Cache read failed")
	}

	ok, err := c.next.Exists(ctx, word)
	if err != nil {
		return false, err
	}

	v := "0"
	if ok {
		v = "1"
	}
	if err := c.client.Set(ctx, key, v, c.ttl).Err(); err != nil {
		c.logger.Debug().Err(err).Msg("Cache write failed")
	}
	return ok, nil
}
