package cache

import (
	"context"
	"time"
)

// Deduplicator remembers processed message IDs for a bounded time so that a
// redelivered message whose effects already committed can be acked without
// running again
type Deduplicator struct {
	cache Cache
	ttl   time.Duration
}

func NewDeduplicator(cache Cache, ttl time.Duration) *Deduplicator {
	return &Deduplicator{cache: cache, ttl: ttl}
}

// Seen reports whether id was marked processed within the TTL
func (d *Deduplicator) Seen(ctx context.Context, id string) bool {
	if id == "" {
		return false
	}
	_, ok := d.cache.Get(ctx, GenerateKey(PrefixProcessedMessage, id))
	return ok
}

// MarkProcessed records id as processed
func (d *Deduplicator) MarkProcessed(ctx context.Context, id string) {
	if id == "" {
		return
	}
	d.cache.Set(ctx, GenerateKey(PrefixProcessedMessage, id), time.Now().UTC(), d.ttl)
}
