package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

type redisEnvelope struct {
	Value    json.RawMessage `json:"v"`
	StoredAt time.Time       `json:"at"`
}

// Redis is a Cache backed by a shared Redis instance, letting several
// replicas serve the same warm entries. Keys are namespaced by prefix.
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "llmcostguide:query:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, time.Time, bool) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		return nil, time.Time{}, false
	}
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, time.Time{}, false
	}
	return env.Value, env.StoredAt, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, retain time.Duration) error {
	env := redisEnvelope{Value: value, StoredAt: time.Now()}
	raw, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+key, raw, retain).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

func (r *Redis) Invalidate(ctx context.Context, predicate func(string) bool) error {
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 0).Iterator()
	var toDelete []string
	for iter.Next(ctx) {
		full := iter.Val()
		if predicate(full[len(r.prefix):]) {
			toDelete = append(toDelete, full)
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(toDelete) == 0 {
		return nil
	}
	return r.client.Del(ctx, toDelete...).Err()
}
