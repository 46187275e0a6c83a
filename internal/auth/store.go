// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package auth

import (
	"context"
	"time"
)

// UserRepository defines the data access contract for application accounts.
//
// # Implementations
//
// The canonical implementation is PostgreSQL ([PostgresUserRepository]).
// Tests supply in-memory fakes.
type UserRepository interface {
	// FindByUsername returns the account with the given username.
	//
	// Returns [apperr.NotFound] if no such account exists.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Create persists a brand-new account.
	//
	// Returns a wrapped error if the username unique constraint fails.
	Create(ctx context.Context, user *User) error
}

// LoginAttemptRepository tracks failed login attempts per username so
// credential stuffing can be throttled.
//
// # Statelessness
//
// This is NOT session state: entries expire on their own and their loss is
// harmless (the throttle simply resets). Token validity never depends on it.
type LoginAttemptRepository interface {
	// RecordFailure increments the counter for a username, starting the TTL
	// window on the first failure, and returns the new count.
	RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error)

	// Failures returns the current counter for a username (0 if absent).
	Failures(ctx context.Context, username string) (int64, error)

	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, username string) error
}
