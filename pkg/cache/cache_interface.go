package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheUnavailable is returned by implementations that have no backing store.
var ErrCacheUnavailable = errors.New("cache unavailable")

// Cache is the contract for the read-through cache layer.
type Cache interface {
	// Get unmarshals the cached value into dest. found is false on a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern such as "location:*".
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}

// Noop never stores anything. It stands in when Redis is not reachable at startup.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string, dest interface{}) (bool, error) { return false, nil }

func (Noop) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (Noop) Delete(ctx context.Context, keys ...string) error { return nil }

func (Noop) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (Noop) Ping(ctx context.Context) error { return ErrCacheUnavailable }
