package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	populateLockTTL = 15 * time.Second
	todoCacheTTL    = 5 * time.Minute
)

// AcquirePopulateLock serializes populate runs for one user. Returns
// false when another run holds the lock. A nil client disables locking.
func AcquirePopulateLock(ctx context.Context, rdb *redis.Client, userID uuid.UUID) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := fmt.Sprintf("populate_lock:user:%s", userID.String())

	wasSet, err := rdb.SetNX(ctx, key, "locked", populateLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire populate lock in redis: %w", err)
	}

	return wasSet, nil
}

func ReleasePopulateLock(ctx context.Context, rdb *redis.Client, userID uuid.UUID) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("populate_lock:user:%s", userID.String())
	_, err := rdb.Del(ctx, key).Result()
	return err
}

// CacheTodoList stores the rendered todo list for one (user, logical day).
func CacheTodoList(ctx context.Context, rdb *redis.Client, userID uuid.UUID, day string, payload []byte) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("todo_cache:user:%s:%s", userID.String(), day)
	return rdb.Set(ctx, key, payload, todoCacheTTL).Err()
}

func GetCachedTodoList(ctx context.Context, rdb *redis.Client, userID uuid.UUID, day string) ([]byte, error) {
	if rdb == nil {
		return nil, nil
	}
	key := fmt.Sprintf("todo_cache:user:%s:%s", userID.String(), day)
	payload, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func InvalidateTodoCache(ctx context.Context, rdb *redis.Client, userID uuid.UUID, day string) error {
	if rdb == nil {
		return nil
	}
	key := fmt.Sprintf("todo_cache:user:%s:%s", userID.String(), day)
	_, err := rdb.Del(ctx, key).Result()
	return err
}
