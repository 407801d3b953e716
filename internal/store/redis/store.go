package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cart:"

// Store persists one session's cart snapshot under a fixed Redis key with a
// TTL, so abandoned carts expire on their own. It holds serialized bytes
// only; validation of the payload belongs to the cart on load.
type Store struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewStore binds a store to the given session's key.
func NewStore(client *redis.Client, sessionID string, ttl time.Duration) *Store {
	return &Store{
		client: client,
		key:    keyPrefix + sessionID,
		ttl:    ttl,
	}
}

// Load reads the snapshot. A missing key means no cart was persisted yet
// and returns (nil, nil) rather than an error.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}
	return data, nil
}

// Save overwrites the snapshot and refreshes the TTL.
func (s *Store) Save(ctx context.Context, snapshot []byte) error {
	if err := s.client.Set(ctx, s.key, snapshot, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}
