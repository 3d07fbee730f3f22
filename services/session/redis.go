package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"levi/models"

	"github.com/go-redis/redis/v8"
)

// SessionKeyPrefix namespaces stored sessions per device.
const SessionKeyPrefix = "levi:session:"

// RedisStore persists the session for one device in Redis with a TTL.
type RedisStore struct {
	client   *redis.Client
	deviceID string
	ttl      time.Duration
}

// NewRedisStore stores the session under SessionKeyPrefix+deviceID. A zero ttl never expires.
func NewRedisStore(client *redis.Client, deviceID string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, deviceID: deviceID, ttl: ttl}
}

func (r *RedisStore) key() string {
	return SessionKeyPrefix + r.deviceID
}

// Save stores the session as JSON.
func (r *RedisStore) Save(ctx context.Context, s models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, r.key(), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Load retrieves the stored session.
func (r *RedisStore) Load(ctx context.Context) (*models.Session, error) {
	data, err := r.client.Get(ctx, r.key()).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	var s models.Session
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// Delete removes the stored session.
func (r *RedisStore) Delete(ctx context.Context) error {
	return r.client.Del(ctx, r.key()).Err()
}
