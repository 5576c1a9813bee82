// Copyright (c) 2026 Pet Clinic Backend contributors. All rights reserved.

package auth

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dramacsoport/petclinic-backend/internal/platform/constants"
)

// RedisLoginLimiter implements LoginLimiter using Redis counters.
//
// Each client key maps to an INCR counter that expires on its own after
// [LoginFailureWindow]. Nothing about issued tokens is ever stored here;
// the limiter only guards the credential check itself.
type RedisLoginLimiter struct {
	client *redis.Client
}

// NewLoginLimiter creates a new Redis-backed LoginLimiter.
func NewLoginLimiter(client *redis.Client) *RedisLoginLimiter {
	return &RedisLoginLimiter{client: client}
}

/*
TooManyFailures reports whether the failure budget for the key is exhausted.

Description: A missing counter means zero recorded failures.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - bool: True when the counter reached LoginFailureLimit
  - error: Connectivity errors
*/
func (limiter *RedisLoginLimiter) TooManyFailures(context context.Context, key string) (bool, error) {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginAttempts + key

	// Read the counter; redis.Nil means no failures recorded yet
	count, err := limiter.client.Get(context, redisKey).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("redis_login_limiter_get_failed: %w", err)
	}

	return count >= LoginFailureLimit, nil
}

/*
RecordFailure increments the failure counter and refreshes its window.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Execution errors
*/
func (limiter *RedisLoginLimiter) RecordFailure(context context.Context, key string) error {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginAttempts + key

	// Increment and refresh the expiry atomically via a pipeline
	pipe := limiter.client.TxPipeline()
	pipe.Incr(context, redisKey)
	pipe.Expire(context, redisKey, LoginFailureWindow)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_login_limiter_incr_failed: %w", err)
	}

	return nil
}

/*
Reset clears the failure counter after a successful login.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Deletion failures
*/
func (limiter *RedisLoginLimiter) Reset(context context.Context, key string) error {

	// Use constants for key prefix
	redisKey := constants.RedisPrefixLoginAttempts + key

	// Delete the counter from Redis
	if err := limiter.client.Del(context, redisKey).Err(); err != nil {
		return fmt.Errorf("redis_login_limiter_reset_failed: %w", err)
	}

	return nil
}
