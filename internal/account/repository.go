package account

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrInvalidID      = errors.New("invalid account id")
	ErrDuplicateEmail = errors.New("email already exists")
	// ErrUnavailable wraps driver and network failures of a backend.
	ErrUnavailable = errors.New("account store unavailable")
)

// Store persists accounts. Email uniqueness is enforced by the backend, so a
// racing Insert fails with ErrDuplicateEmail even after a clean FindByEmail.
type Store interface {
	// ValidID reports whether id has the backend's identifier format.
	ValidID(id string) bool
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	// Insert stores a new account and returns it with ID and timestamps set.
	Insert(ctx context.Context, a *Account) (*Account, error)
	UpdateFields(ctx context.Context, id string, u Update) error
	DeleteByID(ctx context.Context, id string) error
}

// ErrCacheMiss is returned by ProfileCache.Get when no entry exists.
var ErrCacheMiss = errors.New("profile cache miss")

// ProfileCache keeps public profiles in front of the Store. Every entry is
// guarded by a per-account version that Invalidate bumps, so a fill computed
// from a read that raced a mutation is discarded instead of cached.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*Profile, error)
	// Version returns the invalidation counter for id, zero if never bumped.
	Version(ctx context.Context, id string) (int64, error)
	// SetIfVersion stores p only while the counter for p.ID still equals
	// version. It reports whether the entry was written.
	SetIfVersion(ctx context.Context, p Profile, version int64) (bool, error)
	// Invalidate drops the entry and bumps the counter.
	Invalidate(ctx context.Context, id string) error
}

// NoopCache is used when caching is disabled. Every lookup misses.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) (*Profile, error)              { return nil, ErrCacheMiss }
func (NoopCache) Version(context.Context, string) (int64, error)             { return 0, nil }
func (NoopCache) SetIfVersion(context.Context, Profile, int64) (bool, error) { return false, nil }
func (NoopCache) Invalidate(context.Context, string) error                   { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
	_ Store = (*MongoStore)(nil)

	_ ProfileCache = (*RedisProfileCache)(nil)
	_ ProfileCache = NoopCache{}
)
