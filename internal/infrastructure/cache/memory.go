// Package cache holds the in-process page cache used when no Redis is
// configured.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

const cleanupInterval = 10 * time.Minute

// MemoryPageCache keeps rendered route payloads in process memory. It is
// only coherent for a single instance.
type MemoryPageCache struct {
	store *gocache.Cache

	// mu orders Set against Revalidate so a write checked against the
	// current generation cannot land after the entries were dropped.
	mu  sync.Mutex
	gen int64
}

func NewMemoryPageCache(ttl time.Duration) *MemoryPageCache {
	return &MemoryPageCache{store: gocache.New(ttl, cleanupInterval)}
}

var _ ports.PageCache = (*MemoryPageCache)(nil)

func (c *MemoryPageCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false, nil
	}
	body, ok := v.([]byte)
	return body, ok, nil
}

func (c *MemoryPageCache) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

func (c *MemoryPageCache) Set(_ context.Context, key string, body []byte, gen int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return ports.ErrStalePage
	}
	c.store.SetDefault(key, body)
	return nil
}

// Revalidate drops every entry whose key starts with path.
func (c *MemoryPageCache) Revalidate(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for key := range c.store.Items() {
		if strings.HasPrefix(key, path) {
			c.store.Delete(key)
		}
	}
	return nil
}
