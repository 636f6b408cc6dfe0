package redis

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/99minutos/invoice-dashboard/internal/core/ports"
)

const (
	pageKeyPrefix = "page:"
	generationKey = "page-generation"
	scanBatch     = 100
)

// PageCache stores rendered route payloads in Redis so every instance
// serves and invalidates the same entries.
// Key format: page:<path>?<query>
type PageCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPageCache creates a PageCache wrapping the given Redis client. Entries
// expire after ttl even if never revalidated.
func NewPageCache(client *redis.Client, ttl time.Duration) *PageCache {
	return &PageCache{client: client, ttl: ttl}
}

var _ ports.PageCache = (*PageCache)(nil)

// Get reports a miss, not an error, when the key is absent.
func (c *PageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.client.Get(ctx, pageKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "page cache get")
	}
	return body, true, nil
}

// Generation returns the revalidation counter; an absent key reads as zero.
func (c *PageCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "page cache generation")
	}
	return gen, nil
}

// Set stores body only while the generation still equals gen. The check
// and the write run in one WATCH transaction on the generation key.
func (c *PageCache) Set(ctx context.Context, key string, body []byte, gen int64) error {
	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, generationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return ports.ErrStalePage
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, pageKeyPrefix+key, body, c.ttl)
			return nil
		})
		return err
	}, generationKey)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrStalePage), errors.Is(err, redis.TxFailedErr):
		return ports.ErrStalePage
	default:
		return errors.Wrap(err, "page cache set")
	}
}

// Revalidate advances the generation, then deletes every entry cached under
// path, whatever its query.
func (c *PageCache) Revalidate(ctx context.Context, path string) error {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		return errors.Wrapf(err, "revalidate %s", path)
	}

	iter := c.client.Scan(ctx, 0, pageKeyPrefix+path+"*", scanBatch).Iterator()

	keys := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == scanBatch {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrapf(err, "revalidate %s", path)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrapf(err, "revalidate %s", path)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return errors.Wrapf(err, "revalidate %s", path)
		}
	}
	return nil
}
