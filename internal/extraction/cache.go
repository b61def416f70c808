package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheCmdable is the slice of the Redis API the cache needs; satisfied by
// *redis.Client and by miniature fakes in tests.
type cacheCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CachedExtractor decorates an Extractor with a Redis read-through cache so
// re-submissions of the same document do not re-invoke the vision service.
// TTL bounds retention of extracted document data.
type CachedExtractor struct {
	next   Extractor
	redis  cacheCmdable
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps next with a Redis cache. If client is nil the decorator is
// a pass-through.
func NewCached(next Extractor, client cacheCmdable, ttl time.Duration, logger *slog.Logger) *CachedExtractor {
	return &CachedExtractor{next: next, redis: client, ttl: ttl, logger: logger}
}

func (c *CachedExtractor) Extract(ctx context.Context, req Request) (*Result, error) {
	if c.redis == nil {
		return c.next.Extract(ctx, req)
	}

	key := cacheKey(req)
	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		var out Result
		if jsonErr := json.Unmarshal([]byte(cached), &out); jsonErr == nil {
			return &out, nil
		}
		// Corrupt entry: fall through and overwrite it.
	} else if err != redis.Nil && c.logger != nil {
		c.logger.WarnContext(ctx, "extraction cache read failed", "error", err)
	}

	out, err := c.next.Extract(ctx, req)
	if err != nil {
		return nil, err
	}

	// Only successful extractions are worth caching; failures may be
	// transient (blurry upload retried with a better image).
	if out.Success {
		if payload, jsonErr := json.Marshal(out); jsonErr == nil {
			if setErr := c.redis.Set(ctx, key, payload, c.ttl).Err(); setErr != nil && c.logger != nil {
				c.logger.WarnContext(ctx, "extraction cache write failed", "error", setErr)
			}
		}
	}
	return out, nil
}

// cacheKey derives a stable key from the document reference and type. The
// reference is hashed so storage keys never embed upload identifiers.
func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(req.DocumentRef))
	return fmt.Sprintf("extraction:%s:%s", req.DocumentType, hex.EncodeToString(sum[:8]))
}
