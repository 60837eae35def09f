// Package realtime keeps the per-user notification list in Redis and fans
// new notifications out over Redis pub/sub to connected websockets.
package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	listLimit = 100
	listTTL   = 30 * 24 * time.Hour
)

func Key(userID string) string {
	return fmt.Sprintf("notifications:%s", userID)
}

type RedisBroadcaster struct {
	client *redis.Client
}

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

// Push prepends payload to the user's recent list and publishes it on the
// user's channel. It returns the number of live subscribers that got it.
func (b *RedisBroadcaster) Push(ctx context.Context, userID string, payload []byte) (int64, error) {
	key := Key(userID)

	pipe := b.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, listLimit-1)
	pipe.Expire(ctx, key, listTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to store notification in %s: %w", key, err)
	}

	subscribers, err := b.client.Publish(ctx, key, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to publish notification on %s: %w", key, err)
	}
	return subscribers, nil
}

// Subscribe returns the user's pub/sub subscription. The caller closes it.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, userID string) *redis.PubSub {
	return b.client.Subscribe(ctx, Key(userID))
}
