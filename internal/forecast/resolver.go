package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrModelNotFound is returned by resolvers when an organization has no artifact.
var ErrModelNotFound = errors.New("model not found")

// ModelResolver maps an organization id to its trained model.
type ModelResolver interface {
	Resolve(ctx context.Context, organizationID int64) (Model, error)
}

// CacheObserver is notified of cache hits and misses.
type CacheObserver func(hit bool)

// CachedResolver memoizes successful resolutions for ttl so repeated forecasts
// do not re-read the artifact. Misses and failures are never cached, so a
// first artifact is picked up on the next request; a replaced artifact is
// served from cache until ttl expires.
type CachedResolver struct {
	inner    ModelResolver
	cache    *expirable.LRU[int64, Model]
	observer CacheObserver
}

func NewCachedResolver(inner ModelResolver, size int, ttl time.Duration, observer CacheObserver) *CachedResolver {
	return &CachedResolver{
		inner:    inner,
		cache:    expirable.NewLRU[int64, Model](size, nil, ttl),
		observer: observer,
	}
}

func (c *CachedResolver) Resolve(ctx context.Context, organizationID int64) (Model, error) {
	if m, ok := c.cache.Get(organizationID); ok {
		c.observe(true)
		return m, nil
	}
	c.observe(false)

	m, err := c.inner.Resolve(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	c.cache.Add(organizationID, m)
	return m, nil
}

func (c *CachedResolver) observe(hit bool) {
	if c.observer != nil {
		c.observer(hit)
	}
}
