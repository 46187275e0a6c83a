// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package middleware

import (
	"log/slog"
	"net/http"
	"path"

	"github.com/contenedorjem/cursos/internal/platform/apperr"
	"github.com/contenedorjem/cursos/internal/platform/authz"
	"github.com/contenedorjem/cursos/internal/platform/ctxutil"
)

// Authorize enforces the route authorization policy.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]: it consumes the
// principal that Authenticate attached (or its absence). This is the single
// place a failed authentication becomes user-visible, and it exposes only
// the coarse 401/403 distinction, never the underlying verification reason.
//
// # Flow
//  1. Canonicalize the request path (duplicate slashes, dot segments).
//  2. Look up the policy decision for method + path + principal.
//  3. Allow → continue to the route handler.
//  4. DenyUnauthenticated → HTTP 401.
//  5. DenyForbidden → HTTP 403.
func Authorize(policy *authz.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// Policy rules match canonical paths only. A raw spelling like
			// "/api//x" or "/api/a/../x" would otherwise select a laxer
			// rule than the one the router resolves the request to.
			requestPath := path.Clean(request.URL.Path)
			decision := policy.Decide(request.Method, requestPath, principal)

			switch decision {
			case authz.Allow:
				next.ServeHTTP(writer, request)

			case authz.DenyUnauthenticated:
				respondPolicyError(writer, request, decision, apperr.Unauthorized("Authentication required"))

			case authz.DenyForbidden:
				respondPolicyError(writer, request, decision, apperr.Forbidden("Insufficient permissions"))
			}
		})
	}
}

// respondPolicyError logs the denial and writes the boundary error envelope.
func respondPolicyError(writer http.ResponseWriter, request *http.Request, decision authz.Decision, appError *apperr.AppError) {
	logger := ctxutil.GetLogger(request.Context())
	logger.WarnContext(request.Context(), "request_denied",
		slog.String("decision", decision.String()),
		slog.String("method", request.Method),
		slog.String("path", request.URL.Path),
	)

	writeError(writer, appError.HTTPStatus, appError.Code, appError.Message)
}
