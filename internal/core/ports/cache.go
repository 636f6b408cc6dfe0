package ports

import (
	"context"

	"github.com/cockroachdb/errors"
)

// ErrStalePage is returned by PageCache.Set when a revalidation happened
// after the generation the payload was computed under.
var ErrStalePage = errors.New("page computed before last revalidation")

// Revalidator drops cached renders of a route so the next visit recomputes
// them.
type Revalidator interface {
	// Revalidate invalidates every cached render whose key starts with path
	// and advances the cache generation.
	Revalidate(ctx context.Context, path string) error
}

// PageCache stores rendered route payloads keyed by path and query.
//
// Callers read Generation before computing a payload and pass it to Set,
// which refuses the write if a Revalidate ran in between.
type PageCache interface {
	Revalidator
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, key string, body []byte, gen int64) error
}
