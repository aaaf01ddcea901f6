package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	profileKeyPrefix = "account_profile:"
	versionKeyPrefix = "account_profile_version:"

	// versionTTL outlives any in-flight read by a wide margin. An expired
	// counter reads as zero, which only ever makes a pending fill mismatch.
	versionTTL = 24 * time.Hour
)

// RedisProfileCache stores public profiles as JSON strings with a TTL.
// Password hashes never reach Redis.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	return &RedisProfileCache{client: client, ttl: ttl}
}

func profileKey(id string) string {
	return profileKeyPrefix + id
}

func versionKey(id string) string {
	return versionKeyPrefix + id
}

func (c *RedisProfileCache) Get(ctx context.Context, id string) (*Profile, error) {
	data, err := c.client.Get(ctx, profileKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to read cached profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode cached profile: %w", err)
	}

	return &p, nil
}

func (c *RedisProfileCache) Version(ctx context.Context, id string) (int64, error) {
	return readVersion(ctx, c.client, id)
}

// SetIfVersion watches the version key so that an Invalidate landing between
// the check and the write aborts the transaction.
func (c *RedisProfileCache) SetIfVersion(ctx context.Context, p Profile, version int64) (bool, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return false, fmt.Errorf("failed to encode profile: %w", err)
	}

	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, profileKey(p.ID), data, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, versionKey(p.ID))

	switch {
	case errors.Is(err, redis.TxFailedErr):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("failed to cache profile: %w", err)
	}

	return stored, nil
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), versionTTL)
		pipe.Del(ctx, profileKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to invalidate profile: %w", err)
	}
	return nil
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, g getter, id string) (int64, error) {
	v, err := g.Get(ctx, versionKey(id)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read profile version: %w", err)
	}
	return v, nil
}
