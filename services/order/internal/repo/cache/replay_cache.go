package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const replayTTL = 72 * time.Hour

// ReplayCache short-circuits provider retries of events that already committed.
// The webhook_events table stays authoritative; a miss here only costs a DB round trip.
type ReplayCache interface {
	Seen(ctx context.Context, eventID string) bool
	Remember(ctx context.Context, eventID string)
}

type redisReplayCache struct {
	client *redis.Client
}

func NewReplayCache(client *redis.Client) ReplayCache {
	if client == nil {
		return noopReplayCache{}
	}
	return &redisReplayCache{client: client}
}

func (c *redisReplayCache) Seen(ctx context.Context, eventID string) bool {
	n, err := c.client.Exists(ctx, key(eventID)).Result()
	return err == nil && n > 0
}

func (c *redisReplayCache) Remember(ctx context.Context, eventID string) {
	c.client.Set(ctx, key(eventID), 1, replayTTL)
}

func key(eventID string) string {
	return fmt.Sprintf("webhook:event:%s", eventID)
}

type noopReplayCache struct{}

func (noopReplayCache) Seen(context.Context, string) bool { return false }
func (noopReplayCache) Remember(context.Context, string)  {}
