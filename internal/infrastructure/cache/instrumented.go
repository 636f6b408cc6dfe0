package cache

import (
	"context"

	"github.com/99minutos/invoice-dashboard/internal/api/metrics"
	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

type instrumented struct {
	next ports.PageCache
}

// Instrumented wraps a PageCache with lookup and revalidation counters.
func Instrumented(next ports.PageCache) ports.PageCache {
	return &instrumented{next: next}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, ok, err := c.next.Get(ctx, key)
	if ok {
		metrics.PageCacheLookupsTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.PageCacheLookupsTotal.WithLabelValues("miss").Inc()
	}
	return body, ok, err
}

func (c *instrumented) Generation(ctx context.Context) (int64, error) {
	return c.next.Generation(ctx)
}

func (c *instrumented) Set(ctx context.Context, key string, body []byte, gen int64) error {
	return c.next.Set(ctx, key, body, gen)
}

func (c *instrumented) Revalidate(ctx context.Context, path string) error {
	err := c.next.Revalidate(ctx, path)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.PageCacheRevalidationsTotal.WithLabelValues(result).Inc()
	return err
}
