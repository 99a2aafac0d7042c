package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateGuard marks OAuth state values as consumed so a replayed
// callback with the same state is rejected. Entries expire on their
// own; the guard only needs to cover the lifetime of one login flow.
type StateGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewStateGuard(client *redis.Client, prefix string, ttl time.Duration) *StateGuard {
	if prefix == "" {
		prefix = "oauth:state:"
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StateGuard{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Consume records the state and reports whether this was its first
// use. A second call with the same state returns false.
func (g *StateGuard) Consume(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, fmt.Errorf("state cannot be empty")
	}

	ok, err := g.client.SetNX(ctx, g.prefix+state, "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark state consumed: %w", err)
	}
	return ok, nil
}
