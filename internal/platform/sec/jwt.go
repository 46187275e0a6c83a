// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer and the authentication middleware.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Verification Failure Taxonomy

// Sentinel verification failures. They exist for internal diagnostics and
// tests only: the authentication middleware collapses every one of them into
// the same caller-visible outcome (the request proceeds unauthenticated), so
// a client can never learn which check rejected its token.
var (
	// ErrTokenMalformed means the string is not a decodable JWT at all.
	ErrTokenMalformed = errors.New("sec: malformed token")

	// ErrSignatureInvalid means the payload decoded but the HMAC does not
	// verify under the configured signing key, or the token declares a
	// different signing algorithm.
	ErrSignatureInvalid = errors.New("sec: invalid token signature")

	// ErrTokenExpired means the signature verified but 'exp' is in the past.
	ErrTokenExpired = errors.New("sec: token expired")

	// ErrSubjectMismatch means the token is valid but was issued for a
	// different subject than the identity it is being checked against.
	ErrSubjectMismatch = errors.New("sec: token subject mismatch")

	// ErrWeakSigningKey aborts startup when the configured key is too short
	// for HS256. This is the only fatal, non-per-request failure.
	ErrWeakSigningKey = errors.New("sec: signing key below minimum length for HS256")
)

// AuthClaims represents the payload embedded inside a JWT access token.
//
// # Authority
//
// The embedded roles are a convenience cache for clients; the server-side
// middleware always re-derives the caller's roles from the credential store
// and never grants access based on this claim alone.
type AuthClaims struct {
	jwt.RegisteredClaims

	Roles []string `json:"roles"`
}

// TokenService issues and verifies HS256-signed JWTs.
//
// # Concurrency
//
// The signing key and lifetime are fixed at construction and never mutated,
// so a single TokenService is safe for concurrent use by every request.
type TokenService struct {
	key      []byte
	issuer   string
	lifetime time.Duration
}

// NewTokenService builds a TokenService from raw key material.
//
// It rejects keys shorter than minKeyBytes with [ErrWeakSigningKey]; callers
// must treat that as a startup-time fatal, not a recoverable condition. The
// key is never regenerated or rotated without a process restart.
func NewTokenService(secret string, issuer string, lifetime time.Duration, minKeyBytes int) (*TokenService, error) {
	if len(secret) < minKeyBytes {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrWeakSigningKey, len(secret), minKeyBytes)
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("sec: token lifetime must be positive, got %s", lifetime)
	}

	return &TokenService{
		key:      []byte(secret),
		issuer:   issuer,
		lifetime: lifetime,
	}, nil
}

// Lifetime returns the configured token validity window.
func (service *TokenService) Lifetime() time.Duration {
	return service.lifetime
}

// Issue creates a signed access token for a previously verified identity.
//
// The caller is responsible for having checked the password and enabled flag
// already; Issue performs no credential checks of its own.
//
// # Claims
//   - sub: the username
//   - roles: the identity's role strings
//   - iat/exp: now and now + configured lifetime
func (service *TokenService) Issue(username string, roles ...string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.lifetime)),
		},
		Roles: roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Subject verifies the token and returns the username it was issued for.
//
// The middleware uses this to know WHICH identity to load before the full
// [TokenService.Verify] pass binds the token to that identity.
func (service *TokenService) Subject(tokenString string) (string, error) {
	claims, err := service.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Verify checks the token's signature, expiry, and subject binding.
//
// # Parameters
//   - tokenString: the raw compact JWT.
//   - expectedSubject: the username of the identity re-loaded from the
//     credential store. A token that verifies cryptographically but names a
//     different subject is rejected with [ErrSubjectMismatch] — this stops a
//     token outliving a username rename/removal from being honored for
//     whichever account now answers to that name.
//
// # Returns
//   - The decoded [*AuthClaims] on success.
//   - One of the sentinel failures above; Verify never panics on adversarial input.
func (service *TokenService) Verify(tokenString, expectedSubject string) (*AuthClaims, error) {
	claims, err := service.parse(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Subject != expectedSubject {
		return nil, fmt.Errorf("%w: token is for %q", ErrSubjectMismatch, claims.Subject)
	}

	return claims, nil
}

// parse validates the compact JWT and maps library errors onto the sentinel
// failure taxonomy.
func (service *TokenService) parse(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Pin the algorithm family. Accepting whatever 'alg' the token
		// declares would let an attacker downgrade to 'none' or confuse
		// HMAC with an asymmetric scheme.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrSignatureInvalid, token.Header["alg"])
		}
		return service.key, nil
	})

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
		default:
			// Unknown parser failures are treated as malformed input.
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrTokenMalformed)
	}

	return claims, nil
}
