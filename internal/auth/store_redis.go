// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/contenedorjem/cursos/internal/platform/constants"
)

// RedisLoginAttemptRepository implements [LoginAttemptRepository] using Redis.
//
// Counters live under auth:login_attempts:<username> with a rolling TTL, so
// the throttle decays on its own and the service keeps no durable state.
type RedisLoginAttemptRepository struct {
	client *redis.Client
}

// NewLoginAttemptRepository creates a new Redis-backed LoginAttemptRepository.
func NewLoginAttemptRepository(client *redis.Client) *RedisLoginAttemptRepository {
	return &RedisLoginAttemptRepository{client: client}
}

// RecordFailure increments the per-username failure counter, setting the TTL
// window when the counter is first created.
func (repository *RedisLoginAttemptRepository) RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error) {
	key := constants.RedisPrefixLoginAttempts + username

	count, err := repository.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_attempts_incr_failed: %w", err)
	}

	// Only the first failure starts the window; later ones ride it out.
	if count == 1 {
		if err := repository.client.Expire(ctx, key, window).Err(); err != nil {
			return count, fmt.Errorf("redis_login_attempts_expire_failed: %w", err)
		}
	}

	return count, nil
}

// Failures returns the current failure counter for a username.
func (repository *RedisLoginAttemptRepository) Failures(ctx context.Context, username string) (int64, error) {
	key := constants.RedisPrefixLoginAttempts + username

	count, err := repository.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis_login_attempts_get_failed: %w", err)
	}

	return count, nil
}

// Reset clears the failure counter after a successful authentication.
func (repository *RedisLoginAttemptRepository) Reset(ctx context.Context, username string) error {
	key := constants.RedisPrefixLoginAttempts + username

	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_login_attempts_del_failed: %w", err)
	}

	return nil
}
