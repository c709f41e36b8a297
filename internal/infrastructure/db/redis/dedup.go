package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 24 * time.Hour

// EventDedup provides webhook delivery deduplication backed by Redis. It is a
// best-effort optimization: the enrollments unique index remains the
// authoritative guard against a duplicate delivery creating a second row.
// Key format: webhook:<event_id>
type EventDedup struct {
	client *redis.Client
}

// NewEventDedup creates an EventDedup wrapping the given Redis client.
func NewEventDedup(client *redis.Client) *EventDedup {
	return &EventDedup{client: client}
}

// Seen atomically records the event id and reports whether it had already
// been recorded. The entry expires after dedupTTL.
func (d *EventDedup) Seen(ctx context.Context, eventID string) (bool, error) {
	set, err := d.client.SetNX(ctx, d.key(eventID), "1", dedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("webhook dedup: %w", err)
	}
	return !set, nil
}

func (d *EventDedup) key(eventID string) string {
	return "webhook:" + eventID
}
