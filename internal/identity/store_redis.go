// Copyright (c) 2026 SMRT Labs. All rights reserved.

package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/smrtlabs/smrt/internal/platform/constants"
)

// RedisAttemptRepository implements [AttemptRepository] using Redis.
//
// Counters carry a TTL so lockouts clear themselves once the window expires.
type RedisAttemptRepository struct {
	client *redis.Client
}

// NewRedisAttemptRepository creates a new Redis-backed AttemptRepository.
func NewRedisAttemptRepository(client *redis.Client) *RedisAttemptRepository {
	return &RedisAttemptRepository{client: client}
}

/*
Count returns the current failure count for an email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - int: Failures within the active window (0 when the key is absent)
  - error: Connectivity errors
*/
func (repository *RedisAttemptRepository) Count(context context.Context, email string) (int, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixLoginAttempts + email

	// Fetch the counter; a missing key simply means no recent failures
	count, err := repository.client.Get(context, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_attempts_get_failed: %w", err)
	}

	return count, nil
}

/*
Increment bumps the failure counter and starts the expiry window on first failure.

Description: INCR and EXPIRE run in a single pipeline so a crash between them
cannot leave an immortal counter.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - int: The new counter value
  - error: Connectivity errors
*/
func (repository *RedisAttemptRepository) Increment(context context.Context, email string) (int, error) {

	// Use constants for key prefix
	key := constants.RedisPrefixLoginAttempts + email

	pipeline := repository.client.TxPipeline()
	increment := pipeline.Incr(context, key)
	pipeline.Expire(context, key, ThrottleWindow)

	if _, err := pipeline.Exec(context); err != nil {
		return 0, fmt.Errorf("redis_login_attempts_incr_failed: %w", err)
	}

	return int(increment.Val()), nil
}

/*
Reset clears the failure counter after a successful login.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Connectivity errors
*/
func (repository *RedisAttemptRepository) Reset(context context.Context, email string) error {

	// Use constants for key prefix
	key := constants.RedisPrefixLoginAttempts + email

	// Delete the counter; deleting a missing key is a no-op
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_login_attempts_reset_failed: %w", err)
	}

	return nil
}
