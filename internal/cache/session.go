package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/waxlog/waxlog/internal/session"
)

// sessionKeyPrefix is the Redis key prefix for session records.
const sessionKeyPrefix = "session:"

// GetSession retrieves a session record by token.
// Returns nil without error on a miss; expiry is enforced by the key TTL.
func (c *Cache) GetSession(ctx context.Context, token string) (*session.Record, error) {
	data, err := c.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var rec session.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		// Corrupted record - treat as miss
		return nil, nil
	}

	return &rec, nil
}

// SaveSession writes a session record with the given TTL. Used both for
// creation and for the lazy touch that extends expiry.
func (c *Cache) SaveSession(ctx context.Context, token string, rec *session.Record, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := c.client.Set(ctx, sessionKeyPrefix+token, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// DeleteSession removes a session record. Deleting an absent record is
// not an error.
func (c *Cache) DeleteSession(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
