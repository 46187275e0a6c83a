// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/contenedorjem/cursos/internal/platform/constants"
	"github.com/contenedorjem/cursos/internal/platform/ctxutil"
	"github.com/contenedorjem/cursos/internal/platform/sec"
)

// TokenVerifier defines the token operations needed by the authentication
// middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing tests to inject a fake implementation.
type TokenVerifier interface {
	// Subject verifies the token and returns the username it names.
	Subject(tokenString string) (string, error)

	// Verify re-checks the token against the authoritative identity.
	Verify(tokenString, expectedSubject string) (*sec.AuthClaims, error)
}

// IdentityStore is the credential-store port the middleware uses to re-derive
// authority from the token's subject.
type IdentityStore interface {
	// FindIdentity returns the current credential record for a username.
	// The returned roles are authoritative; the token's embedded roles are
	// only a client-side cache.
	FindIdentity(ctx context.Context, username string) (*sec.Identity, error)
}

// Authenticate resolves the caller's identity before any route logic runs.
//
// # Flow
//  1. Extract a token: 'Authorization: Bearer <t>' header first, then the
//     JWT cookie. A bearer header wins when both are present; a header in
//     some other scheme is ignored and the cookie still applies. No
//     token → anonymous.
//  2. Verify the token and read its subject.
//  3. Re-load the identity from the credential store (live roles + enabled
//     flag) and bind the token to it.
//  4. Attach the resolved [*sec.Principal] to the request context.
//
// # Failure policy
//
// Every failure — malformed token, bad signature, expiry, unknown or
// disabled identity, subject mismatch, store error — is logged with its
// specific reason and then collapsed into "proceed anonymous". This
// middleware never writes a response: the authorization policy is the sole
// enforcement point, so public routes keep working and clients learn nothing
// about WHY a token was rejected.
//
// # Revocation
//
// Because authority is re-derived from the store on every request, disabling
// an identity invalidates its outstanding tokens immediately, without a
// revocation list.
func Authenticate(verifier TokenVerifier, identities IdentityStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenString := extractToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if tokenString == "" {
				next.ServeHTTP(writer, request)
				return
			}

			logger := ctxutil.GetLogger(request.Context())

			// ── 2. Token Verification ─────────────────────────────────────────
			subject, err := verifier.Subject(tokenString)
			if err != nil {
				logUnauthenticated(logger, request, "token_rejected", err)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Authority Re-Derivation ────────────────────────────────────
			identity, err := identities.FindIdentity(request.Context(), subject)
			if err != nil {
				logUnauthenticated(logger, request, "identity_unresolved", err)
				next.ServeHTTP(writer, request)
				return
			}
			if !identity.Enabled {
				logUnauthenticated(logger, request, "identity_disabled", nil)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Subject Binding ────────────────────────────────────────────
			if _, err := verifier.Verify(tokenString, identity.Username); err != nil {
				logUnauthenticated(logger, request, "subject_binding_failed", err)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			principal := &sec.Principal{
				Username: identity.Username,
				Roles:    []sec.Role{identity.Role},
			}
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// extractToken pulls the compact JWT out of the request, header before cookie.
func extractToken(request *http.Request) string {
	parts := strings.SplitN(request.Header.Get(constants.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}

	// A non-bearer header (a proxy-injected Basic, say) is no claim on
	// this scheme; the cookie still counts.
	cookie, err := request.Cookie(constants.TokenCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// logUnauthenticated records the internal rejection reason. The reason stays
// in the logs; the client only ever observes an anonymous request.
func logUnauthenticated(logger *slog.Logger, request *http.Request, reason string, err error) {
	attrs := []any{
		slog.String("reason", reason),
		slog.String("path", request.URL.Path),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	logger.DebugContext(request.Context(), "authentication_skipped", attrs...)
}
