package redis

import (
	"context"
	"fmt"

	"github.com/alem-hub/gradebook/internal/infrastructure/messaging"
)

// pubSubBuffer is the size of the channel handed to subscribers.
const pubSubBuffer = 64

// PubSub adapts Cache to messaging.RedisClient.
type PubSub struct {
	cache *Cache
}

// NewPubSub creates a new PubSub.
func NewPubSub(cache *Cache) *PubSub {
	return &PubSub{cache: cache}
}

// Publish sends message as-is. Callers pass already encoded payloads.
func (p *PubSub) Publish(ctx context.Context, channel string, message interface{}) error {
	if channel == "" {
		return ErrCacheKeyEmpty
	}
	return p.cache.client.Publish(ctx, channel, message).Err()
}

// Subscribe confirms the subscription and then streams messages until ctx
// is cancelled or the connection closes.
func (p *PubSub) Subscribe(ctx context.Context, channels ...string) (<-chan messaging.RedisMessage, error) {
	ps := p.cache.client.Subscribe(ctx, channels...)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan messaging.RedisMessage, pubSubBuffer)
	in := ps.Channel()

	go func() {
		defer close(out)
		defer ps.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- messaging.RedisMessage{Channel: msg.Channel, Payload: msg.Payload}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
