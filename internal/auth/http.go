// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contenedorjem/cursos/internal/platform/constants"
	requestutil "github.com/contenedorjem/cursos/internal/platform/request"
	"github.com/contenedorjem/cursos/internal/platform/respond"
	"github.com/contenedorjem/cursos/internal/platform/validate"
)

// Handler implements the authentication HTTP endpoints.
//
// # Scope
//
// Login mints a token and arranges both transports (JSON body + HttpOnly
// cookie); logout's only effect is expiring the client-held cookie, because
// there is no server-side session to clear.
type Handler struct {
	authService *Service

	// secureCookies marks the JWT cookie Secure (HTTPS-only). Off in
	// development so plain-HTTP testing works; on in production.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login  : Authenticates and returns a JWT (body + cookie).
//   - POST /logout : Expires the JWT cookie. Idempotent.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	return router
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login handles POST /api/auth/login requests.
//
// # Returns
//   - Writes HTTP 200 OK with {token} and a Set-Cookie for "JWT" on success.
//   - Writes HTTP 401 Unauthorized for bad credentials — one generic message
//     regardless of which check failed.
//   - Writes HTTP 429 when the username's failed-login window is exhausted.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Boundary Validation ────────────────────────────────────────────

	if input.Username == "" || input.Password == "" {
		respond.Error(writer, request, validate.RequiredError("username/password", "are required"))
		return
	}

	// ── 3. Application Execution ──────────────────────────────────────────

	result, err := handler.authService.Login(request.Context(), LoginInput{
		Username: input.Username,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 4. Transport ──────────────────────────────────────────────────────

	// Cookie for browsers (HttpOnly keeps it away from scripts), token in
	// the body for API clients that prefer the Authorization header.
	http.SetCookie(writer, handler.sessionCookie(result.Token, int(result.Lifetime.Seconds())))

	respond.OK(writer, map[string]string{
		constants.FieldToken: result.Token,
	})
}

// logout handles POST /api/auth/logout requests.
//
// There is no server-side session state; the only effect is overwriting the
// client's JWT cookie with an immediately-expiring empty one. Calling it
// repeatedly, or without ever having logged in, succeeds identically.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	// MaxAge<0 serializes as Max-Age=0: delete immediately.
	expired := handler.sessionCookie("", -1)
	http.SetCookie(writer, expired)

	respond.NoContent(writer)
}

// sessionCookie builds the JWT transport cookie with this service's fixed
// attribute set.
func (handler *Handler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     constants.TokenCookieName,
		Value:    value,
		Path:     constants.TokenCookiePath,
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   handler.secureCookies,
	}
}
