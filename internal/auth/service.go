// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/contenedorjem/cursos/internal/platform/apperr"
	"github.com/contenedorjem/cursos/internal/platform/constants"
	"github.com/contenedorjem/cursos/internal/platform/sec"
)

// TokenIssuer defines the contract for minting security tokens.
type TokenIssuer interface {
	// Issue creates a signed JWT for an already-verified identity.
	Issue(username string, roles ...string) (string, error)

	// Lifetime returns the configured token validity window, which also
	// drives the session cookie's Max-Age.
	Lifetime() time.Duration
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to credential checking
// or token issuance must be reviewed with extra care.
type Service struct {
	users    UserRepository
	attempts LoginAttemptRepository
	tokens   TokenIssuer
	logger   *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(users UserRepository, attempts LoginAttemptRepository, tokens TokenIssuer, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		attempts: attempts,
		tokens:   tokens,
		logger:   logger,
	}
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult represents a successfully established stateless session.
type LoginResult struct {
	Token    string
	Lifetime time.Duration
}

// errInvalidCredentials is the single generic failure for every credential
// problem. Distinguishing "unknown user" from "wrong password" from
// "disabled" in the response would hand attackers a username oracle.
func errInvalidCredentials() error {
	return apperr.Unauthorized("Invalid login credentials")
}

// Login validates user credentials and issues a signed token.
//
// # Flow
//  1. Reject early if the username's failed-login counter is exhausted.
//  2. Look up the account; verify it is enabled; compare the bcrypt hash.
//  3. Mint a token carrying the account's current role.
//
// # Returns
//   - [*LoginResult] on success.
//   - A generic [apperr.Unauthorized] for unknown/disabled/wrong-password.
//   - [apperr.RateLimited] when the throttle window is exhausted.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	// ── 1. Throttle Check ─────────────────────────────────────────────────

	// A throttle-store outage must not take logins down with it; the
	// throttle is an extra guard, not a dependency.
	failures, err := service.attempts.Failures(ctx, input.Username)
	if err != nil {
		service.logger.Warn("login_throttle_unavailable", slog.String("error", err.Error()))
	} else if failures >= constants.MaxLoginAttempts {
		return nil, apperr.RateLimited(int(constants.LoginAttemptWindow.Seconds()))
	}

	// ── 2. Credential Verification ────────────────────────────────────────

	user, err := service.users.FindByUsername(ctx, input.Username)
	if err != nil {
		service.recordFailure(ctx, input.Username, "unknown_username")
		return nil, errInvalidCredentials()
	}

	if !user.Enabled {
		service.recordFailure(ctx, input.Username, "identity_disabled")
		return nil, errInvalidCredentials()
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(ctx, input.Username, "password_mismatch")
		return nil, errInvalidCredentials()
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	token, err := service.tokens.Issue(user.Username, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	// Clearing the counter is best effort; it expires on its own anyway.
	if err := service.attempts.Reset(ctx, input.Username); err != nil {
		service.logger.Warn("login_throttle_reset_failed", slog.String("error", err.Error()))
	}

	return &LoginResult{
		Token:    token,
		Lifetime: service.tokens.Lifetime(),
	}, nil
}

// FindIdentity exposes the credential store to the authentication middleware.
//
// It returns the CURRENT record for the username: the middleware relies on
// this freshness to retire tokens of renamed, removed, or disabled accounts.
func (service *Service) FindIdentity(ctx context.Context, username string) (*sec.Identity, error) {
	user, err := service.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// EnsureBootstrapUser creates the given account at startup when it does not
// exist yet. It never overwrites an existing account's password or role.
//
// Used to seed the first admin in fresh environments; skipped entirely when
// no bootstrap credentials are configured.
func (service *Service) EnsureBootstrapUser(ctx context.Context, username, password string, role sec.Role) error {
	if username == "" || password == "" {
		return nil
	}

	if _, err := service.users.FindByUsername(ctx, username); err == nil {
		return nil
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth_service_bootstrap_hash_failed: %w", err)
	}

	user := &User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Enabled:      true,
	}
	if err := service.users.Create(ctx, user); err != nil {
		return fmt.Errorf("auth_service_bootstrap_create_failed: %w", err)
	}

	service.logger.Info("bootstrap_user_created",
		slog.String("username", username),
		slog.String("role", string(role)),
	)
	return nil
}

// recordFailure bumps the throttle counter and logs the internal reason.
// The reason never reaches the client.
func (service *Service) recordFailure(ctx context.Context, username, reason string) {
	if _, err := service.attempts.RecordFailure(ctx, username, constants.LoginAttemptWindow); err != nil {
		service.logger.Warn("login_throttle_record_failed", slog.String("error", err.Error()))
	}
	service.logger.Debug("login_rejected",
		slog.String("username", username),
		slog.String("reason", reason),
	)
}
