package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces cache keys in a shared Redis.
const DefaultRedisPrefix = "aggregator:cache:"

const clearBatch = 100

// RedisStore keeps JSON-encoded entries in Redis so several service
// replicas share one cache. Keys carry a Redis expiry of twice the TTL so
// abandoned entries do not pile up; validity is still decided by Cache.
type RedisStore[V any] struct {
	rdb    *redis.Client
	prefix string
	expiry time.Duration
}

// NewRedisStore returns a RedisStore on rdb. An empty prefix or a
// non-positive ttl falls back to the defaults.
func NewRedisStore[V any](rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore[V] {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore[V]{rdb: rdb, prefix: prefix, expiry: 2 * ttl}
}

// Get decodes the entry under key. A missing key is not an error.
func (r *RedisStore[V]) Get(ctx context.Context, key string) (Entry[V], bool, error) {
	var e Entry[V]
	raw, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, false, nil
	}
	if err != nil {
		return e, false, errors.Wrap(err, "redis GET")
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, false, errors.Wrap(err, "decode cache entry")
	}
	return e, true, nil
}

// Set encodes e as JSON and writes it with the store expiry.
func (r *RedisStore[V]) Set(ctx context.Context, key string, e Entry[V]) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}
	return errors.Wrap(r.rdb.Set(ctx, r.prefix+key, raw, r.expiry).Err(), "redis SET")
}

// Delete removes the entry under key.
func (r *RedisStore[V]) Delete(ctx context.Context, key string) error {
	return errors.Wrap(r.rdb.Del(ctx, r.prefix+key).Err(), "redis DEL")
}

// Clear deletes every key under the prefix.
func (r *RedisStore[V]) Clear(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, r.prefix+"*", clearBatch).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == clearBatch {
			if err := r.rdb.Del(ctx, batch...).Err(); err != nil {
				return errors.Wrap(err, "redis DEL")
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "redis SCAN")
	}
	if len(batch) > 0 {
		return errors.Wrap(r.rdb.Del(ctx, batch...).Err(), "redis DEL")
	}
	return nil
}
