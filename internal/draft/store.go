package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrDraftNotFound is returned when a draft does not exist or has expired.
var ErrDraftNotFound = errors.New("draft: not found or expired")

const keyPrefix = "application_draft:"

// Store persists in-progress application form payloads for a limited time.
type Store interface {
	Save(ctx context.Context, draftID string, payload []byte) error
	Load(ctx context.Context, draftID string) ([]byte, error)
}

// RedisStore keeps drafts in redis under application_draft:{id} with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) Save(ctx context.Context, draftID string, payload []byte) error {
	key := keyPrefix + draftID
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, draftID string) ([]byte, error) {
	key := keyPrefix + draftID
	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}
	return payload, nil
}
