package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Markers is a short-TTL marker store over redis used to absorb repeat
// pixel fetches (email clients prefetch and proxy aggressively). It is a
// best-effort side channel: callers treat every error as a cache miss and
// never let it fail the request.
type Markers struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMarkers(client *redis.Client, ttl time.Duration) *Markers {
	return &Markers{client: client, ttl: ttl}
}

// Seen reports whether a marker exists for the key.
func (m *Markers) Seen(ctx context.Context, key string) (bool, error) {
	_, err := m.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Mark stores value under key with the configured expiry.
func (m *Markers) Mark(ctx context.Context, key string, value string) error {
	return m.client.Set(ctx, key, value, m.ttl).Err()
}
