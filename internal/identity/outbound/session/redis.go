package session

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const recordKeyPrefix = "session:"

// RedisRecords is a RecordStore backed by Redis. Records carry the owning
// user ID and expire with the token TTL, so stale records clean themselves up.
type RedisRecords struct {
	client *redis.Client
}

// NewRedisRecords constructs a Redis-backed record store.
func NewRedisRecords(client *redis.Client) *RedisRecords {
	return &RedisRecords{client: client}
}

// Save stores a live session record with the given TTL.
func (r *RedisRecords) Save(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, recordKeyPrefix+tokenID, strconv.FormatInt(userID, 10), ttl).Err()
}

// Exists reports whether the session record is still live.
func (r *RedisRecords) Exists(ctx context.Context, tokenID string) (bool, error) {
	if err := r.client.Get(ctx, recordKeyPrefix+tokenID).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes the session record.
func (r *RedisRecords) Delete(ctx context.Context, tokenID string) error {
	return r.client.Del(ctx, recordKeyPrefix+tokenID).Err()
}
