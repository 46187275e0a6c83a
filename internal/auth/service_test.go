// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contenedorjem/cursos/internal/auth"
	"github.com/contenedorjem/cursos/internal/platform/apperr"
	"github.com/contenedorjem/cursos/internal/platform/constants"
	"github.com/contenedorjem/cursos/internal/platform/sec"
)

// fakeUserRepository is an in-memory UserRepository.
type fakeUserRepository struct {
	users map[string]*auth.User
}

func (f *fakeUserRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (f *fakeUserRepository) Create(ctx context.Context, user *auth.User) error {
	if _, exists := f.users[user.Username]; exists {
		return apperr.Conflict("Username is already taken")
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.Username] = user
	return nil
}

// fakeAttemptRepository counts failures in memory, optionally erroring to
// simulate a Redis outage.
type fakeAttemptRepository struct {
	counts map[string]int64
	err    error
}

func (f *fakeAttemptRepository) RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[username]++
	return f.counts[username], nil
}

func (f *fakeAttemptRepository) Failures(ctx context.Context, username string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[username], nil
}

func (f *fakeAttemptRepository) Reset(ctx context.Context, username string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.counts, username)
	return nil
}

// fakeIssuer mints predictable tokens.
type fakeIssuer struct {
	err error
}

func (f *fakeIssuer) Issue(username string, roles ...string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + username, nil
}

func (f *fakeIssuer) Lifetime() time.Duration {
	return time.Hour
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedUser(t *testing.T, repo *fakeUserRepository, username, password string, role sec.Role, enabled bool) {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	repo.users[username] = &auth.User{
		ID:           int64(len(repo.users) + 1),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Enabled:      enabled,
	}
}

func newTestService(t *testing.T) (*auth.Service, *fakeUserRepository, *fakeAttemptRepository) {
	t.Helper()
	users := &fakeUserRepository{users: map[string]*auth.User{}}
	attempts := &fakeAttemptRepository{counts: map[string]int64{}}
	service := auth.NewService(users, attempts, &fakeIssuer{}, discardLogger())
	return service, users, attempts
}

/*
TestService_Login_Success checks the happy path: valid credentials produce a
token and clear the failure counter.
*/
func TestService_Login_Success(t *testing.T) {
	service, users, attempts := newTestService(t)
	seedUser(t, users, "maria", "correct-horse", sec.RoleAdmin, true)
	attempts.counts["maria"] = 3

	result, err := service.Login(context.Background(), auth.LoginInput{
		Username: "maria",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "token-for-maria", result.Token)
	assert.Equal(t, time.Hour, result.Lifetime)
	assert.Zero(t, attempts.counts["maria"], "successful login should reset the counter")
}

/*
TestService_Login_GenericFailure verifies that unknown usernames, wrong
passwords, and disabled accounts are indistinguishable to the caller.
*/
func TestService_Login_GenericFailure(t *testing.T) {
	service, users, _ := newTestService(t)
	seedUser(t, users, "maria", "correct-horse", sec.RoleAdmin, true)
	seedUser(t, users, "dormant", "correct-horse", sec.RoleUser, false)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown_username", "nobody", "whatever"},
		{"wrong_password", "maria", "battery-staple"},
		{"disabled_account", "dormant", "correct-horse"},
	}

	var messages []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.Login(context.Background(), auth.LoginInput{
				Username: tt.username,
				Password: tt.password,
			})

			assert.Nil(t, result)
			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, http.StatusUnauthorized, appError.HTTPStatus)
			messages = append(messages, appError.Message)
		})
	}

	// One message for all three failure modes.
	assert.Equal(t, messages[0], messages[1])
	assert.Equal(t, messages[1], messages[2])
}

/*
TestService_Login_FailureCountsAccumulate ensures each rejection bumps the
per-username counter.
*/
func TestService_Login_FailureCountsAccumulate(t *testing.T) {
	service, users, attempts := newTestService(t)
	seedUser(t, users, "maria", "correct-horse", sec.RoleAdmin, true)

	for i := 0; i < 3; i++ {
		_, err := service.Login(context.Background(), auth.LoginInput{Username: "maria", Password: "bad"})
		require.Error(t, err)
	}

	assert.Equal(t, int64(3), attempts.counts["maria"])
}

/*
TestService_Login_Throttled rejects with 429 once the window is exhausted,
without even touching the password.
*/
func TestService_Login_Throttled(t *testing.T) {
	service, users, attempts := newTestService(t)
	seedUser(t, users, "maria", "correct-horse", sec.RoleAdmin, true)
	attempts.counts["maria"] = constants.MaxLoginAttempts

	result, err := service.Login(context.Background(), auth.LoginInput{
		Username: "maria",
		Password: "correct-horse",
	})

	assert.Nil(t, result)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, http.StatusTooManyRequests, appError.HTTPStatus)
}

/*
TestService_Login_ThrottleOutage verifies a failing throttle store degrades
gracefully: valid credentials still log in.
*/
func TestService_Login_ThrottleOutage(t *testing.T) {
	users := &fakeUserRepository{users: map[string]*auth.User{}}
	attempts := &fakeAttemptRepository{counts: map[string]int64{}, err: errors.New("redis down")}
	service := auth.NewService(users, attempts, &fakeIssuer{}, discardLogger())
	seedUser(t, users, "maria", "correct-horse", sec.RoleAdmin, true)

	result, err := service.Login(context.Background(), auth.LoginInput{
		Username: "maria",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

/*
TestService_FindIdentity exposes the live credential projection used by the
authentication middleware.
*/
func TestService_FindIdentity(t *testing.T) {
	service, users, _ := newTestService(t)
	seedUser(t, users, "maria", "correct-horse", sec.RoleAdmin, true)

	identity, err := service.FindIdentity(context.Background(), "maria")
	require.NoError(t, err)
	assert.Equal(t, "maria", identity.Username)
	assert.Equal(t, sec.RoleAdmin, identity.Role)
	assert.True(t, identity.Enabled)

	_, err = service.FindIdentity(context.Background(), "nobody")
	require.Error(t, err)
}

/*
TestService_EnsureBootstrapUser seeds the first admin exactly once and never
overwrites an existing account.
*/
func TestService_EnsureBootstrapUser(t *testing.T) {
	service, users, _ := newTestService(t)

	// Blank credentials skip seeding entirely.
	require.NoError(t, service.EnsureBootstrapUser(context.Background(), "", "", sec.RoleAdmin))
	assert.Empty(t, users.users)

	require.NoError(t, service.EnsureBootstrapUser(context.Background(), "admin", "first-password", sec.RoleAdmin))
	created := users.users["admin"]
	require.NotNil(t, created)
	assert.True(t, created.Enabled)
	assert.Equal(t, sec.RoleAdmin, created.Role)
	assert.True(t, sec.CheckPasswordHash("first-password", created.PasswordHash))

	// Second run with a different password must not touch the account.
	require.NoError(t, service.EnsureBootstrapUser(context.Background(), "admin", "second-password", sec.RoleAdmin))
	assert.True(t, sec.CheckPasswordHash("first-password", users.users["admin"].PasswordHash))
}
