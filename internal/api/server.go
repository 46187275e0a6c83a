// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - It owns the access policy table: every route's role requirement is
    declared here, in one place, instead of inside individual handlers.
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/contenedorjem/cursos/internal/auth"
	"github.com/contenedorjem/cursos/internal/course"
	"github.com/contenedorjem/cursos/internal/platform/authz"
	"github.com/contenedorjem/cursos/internal/platform/config"
	"github.com/contenedorjem/cursos/internal/platform/constants"
	"github.com/contenedorjem/cursos/internal/platform/middleware"
	"github.com/contenedorjem/cursos/internal/platform/sec"
	"github.com/contenedorjem/cursos/internal/student"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here plus their policy rules in [AccessPolicy] —
// no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles login and logout.
	Auth *auth.Handler

	// Course manages the course catalogue.
	Course *course.Handler

	// Student manages course enrollment records.
	Student *student.Handler
}

// # Access Policy

// AccessPolicy declares the role requirement for every route group.
//
// Declaration order is the tie-breaker for rules with equally specific
// paths, so method-specific rules come before their catch-all siblings.
// Any request matching no rule requires authentication with any role.
func AccessPolicy() *authz.Policy {
	return authz.NewPolicy(
		// Health probes and the login/logout endpoints are open.
		authz.Public(http.MethodGet, "/health"),
		authz.Public(http.MethodGet, "/ready"),
		authz.Public(authz.MethodAny, "/api/auth"),

		// Catalogue reads are open to every authenticated role; writes
		// stay admin-only.
		authz.Require(http.MethodGet, "/api/cursos", sec.RoleAdmin, sec.RoleUser),
		authz.Require(authz.MethodAny, "/api/cursos", sec.RoleAdmin),
		authz.Require(http.MethodGet, "/api/alumnos", sec.RoleAdmin, sec.RoleUser),
		authz.Require(authz.MethodAny, "/api/alumnos", sec.RoleAdmin),
	)
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
//
// Authentication runs globally and never rejects: it resolves a principal
// when a valid token names an enabled account, and leaves the request
// anonymous otherwise. The authorization middleware then applies the
// [AccessPolicy] verdict before any handler runs.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, verifier middleware.TokenVerifier, identities middleware.IdentityStore, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. CleanPath runs
	// first: every later stage, the access policy included, must see the
	// same canonical path that chi ends up routing.
	r.Use(chimw.CleanPath)
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(verifier, identities))
	r.Use(middleware.CORS(cfg))
	r.Use(middleware.Authorize(AccessPolicy()))

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	r.Route("/api", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Route("/cursos", h.Course.RegisterRoutes)
		api.Route("/alumnos", h.Student.RegisterRoutes)
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the underlying router, mainly for tests that drive the
// full middleware chain without opening a socket.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
