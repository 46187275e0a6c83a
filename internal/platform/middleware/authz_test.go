// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contenedorjem/cursos/internal/platform/authz"
	"github.com/contenedorjem/cursos/internal/platform/ctxutil"
	"github.com/contenedorjem/cursos/internal/platform/middleware"
	"github.com/contenedorjem/cursos/internal/platform/sec"
)

/*
TestAuthorize_StatusMapping drives each policy verdict through the
enforcement middleware: 401 for anonymous, 403 for wrong role, pass-through
on allow.
*/
func TestAuthorize_StatusMapping(t *testing.T) {
	policy := authz.NewPolicy(
		authz.Public(http.MethodGet, "/open"),
		authz.Require(authz.MethodAny, "/restricted", sec.RoleAdmin),
	)

	tests := []struct {
		name       string
		path       string
		principal  *sec.Principal
		wantStatus int
	}{
		{"public_anonymous", "/open", nil, http.StatusOK},
		{"restricted_anonymous", "/restricted", nil, http.StatusUnauthorized},
		{"restricted_wrong_role", "/restricted", &sec.Principal{Username: "pedro", Roles: []sec.Role{sec.RoleUser}}, http.StatusForbidden},
		{"restricted_admin", "/restricted", &sec.Principal{Username: "maria", Roles: []sec.Role{sec.RoleAdmin}}, http.StatusOK},
		{"unlisted_anonymous", "/somewhere", nil, http.StatusUnauthorized},
		{"unlisted_authenticated", "/somewhere", &sec.Principal{Username: "pedro", Roles: []sec.Role{sec.RoleUser}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerRan := false
			inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				handlerRan = true
				writer.WriteHeader(http.StatusOK)
			})

			handler := middleware.Authorize(policy)(inner)

			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.principal != nil {
				request = request.WithContext(ctxutil.WithPrincipal(request.Context(), tt.principal))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, handlerRan)
		})
	}
}

/*
TestAuthorize_PathNormalization feeds un-normalized spellings of guarded
paths through the middleware; the verdict must track the canonical path,
never the raw one.
*/
func TestAuthorize_PathNormalization(t *testing.T) {
	policy := authz.NewPolicy(
		authz.Public(authz.MethodAny, "/api/auth"),
		authz.Require(authz.MethodAny, "/api/restricted", sec.RoleAdmin),
	)
	regular := &sec.Principal{Username: "pedro", Roles: []sec.Role{sec.RoleUser}}

	tests := []struct {
		name       string
		path       string
		principal  *sec.Principal
		wantStatus int
	}{
		// "/api//restricted" misses the admin rule raw; cleaned it must not.
		{"duplicate_slash", "/api//restricted", regular, http.StatusForbidden},
		// Dot segments must not ride the public prefix into a guarded path.
		{"dot_segment_escape", "/api/auth/../restricted", nil, http.StatusUnauthorized},
		{"dot_segment_wrong_role", "/api/auth/../restricted", regular, http.StatusForbidden},
		{"trailing_slash", "/api/restricted/", regular, http.StatusForbidden},
		{"clean_public", "/api/auth/login", nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Authorize(policy)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.WriteHeader(http.StatusOK)
			}))

			request := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.principal != nil {
				request = request.WithContext(ctxutil.WithPrincipal(request.Context(), tt.principal))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
