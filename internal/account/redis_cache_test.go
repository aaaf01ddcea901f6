package account

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, ttl time.Duration) (*RedisProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisProfileCache(client, ttl), mr
}

func TestRedisProfileCache_RoundTrip(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	p := Profile{ID: "abc", Name: "Ana", Email: "ana@x.com", CreatedAt: time.Now().UTC().Truncate(time.Second)}

	_, err := cache.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)

	version, err := cache.Version(ctx, "abc")
	require.NoError(t, err)
	assert.Zero(t, version)

	stored, err := cache.SetIfVersion(ctx, p, version)
	require.NoError(t, err)
	assert.True(t, stored)
	assert.Equal(t, time.Minute, mr.TTL("account_profile:abc"))

	got, err := cache.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, cache.Invalidate(ctx, "abc"))
	_, err = cache.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisProfileCache_SetIfVersion(t *testing.T) {
	tests := []struct {
		name        string
		invalidates int
		version     int64
		stored      bool
	}{
		{"fresh key", 0, 0, true},
		{"current version", 2, 2, true},
		{"invalidated since read", 1, 0, false},
		{"version from the future", 0, 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, mr := newTestCache(t, time.Minute)
			ctx := context.Background()
			for i := 0; i < tt.invalidates; i++ {
				require.NoError(t, cache.Invalidate(ctx, "abc"))
			}

			stored, err := cache.SetIfVersion(ctx, Profile{ID: "abc", Name: "Ana"}, tt.version)

			require.NoError(t, err)
			assert.Equal(t, tt.stored, stored)
			assert.Equal(t, tt.stored, mr.Exists("account_profile:abc"))
		})
	}
}

func TestRedisProfileCache_InvalidateBumpsVersion(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Invalidate(ctx, "abc"))
	require.NoError(t, cache.Invalidate(ctx, "abc"))

	version, err := cache.Version(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
	assert.Equal(t, versionTTL, mr.TTL("account_profile_version:abc"))
}

func TestRedisProfileCache_Unreachable(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	mr.Close()

	_, err := cache.Version(ctx, "abc")
	assert.Error(t, err)
	_, err = cache.SetIfVersion(ctx, Profile{ID: "abc"}, 0)
	assert.Error(t, err)
	assert.Error(t, cache.Invalidate(ctx, "abc"))
}

func TestRedisProfileCache_Expires(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, err := cache.SetIfVersion(ctx, Profile{ID: "abc", Name: "Ana"}, 0)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = cache.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisProfileCache_NeverStoresHash(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	acct := Account{ID: "abc", Name: "Ana", Email: "ana@x.com", PasswordHash: "$2a$12$secret"}

	_, err := cache.SetIfVersion(context.Background(), acct.Profile(), 0)
	require.NoError(t, err)

	raw, err := mr.Get("account_profile:abc")
	require.NoError(t, err)
	assert.NotContains(t, raw, "$2a$12$secret")
}

func TestRedisProfileCache_CorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("account_profile:abc", "{not json"))

	_, err := cache.Get(context.Background(), "abc")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestNoopCache(t *testing.T) {
	var c NoopCache
	ctx := context.Background()

	_, err := c.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrCacheMiss)

	version, err := c.Version(ctx, "x")
	assert.NoError(t, err)
	stored, err := c.SetIfVersion(ctx, Profile{}, version)
	assert.NoError(t, err)
	assert.False(t, stored)
	assert.NoError(t, c.Invalidate(ctx, "x"))
}
