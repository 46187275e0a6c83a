// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package authz_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/contenedorjem/cursos/internal/platform/authz"
	"github.com/contenedorjem/cursos/internal/platform/sec"
)

func adminPrincipal() *sec.Principal {
	return &sec.Principal{Username: "maria", Roles: []sec.Role{sec.RoleAdmin}}
}

func userPrincipal() *sec.Principal {
	return &sec.Principal{Username: "pedro", Roles: []sec.Role{sec.RoleUser}}
}

// testPolicy mirrors the production table's shape: public auth routes,
// read-for-all plus write-for-admin catalogue rules.
func testPolicy() *authz.Policy {
	return authz.NewPolicy(
		authz.Public(http.MethodGet, "/health"),
		authz.Public(authz.MethodAny, "/api/auth"),
		authz.Require(http.MethodGet, "/api/cursos", sec.RoleAdmin, sec.RoleUser),
		authz.Require(authz.MethodAny, "/api/cursos", sec.RoleAdmin),
	)
}

/*
TestPolicy_Decide runs the access matrix through the evaluator: public
routes, role-gated reads and writes, and the default-deny fallback.
*/
func TestPolicy_Decide(t *testing.T) {
	policy := testPolicy()

	tests := []struct {
		name      string
		method    string
		path      string
		principal *sec.Principal
		want      authz.Decision
	}{
		// Public routes ignore the principal entirely.
		{"health_anonymous", http.MethodGet, "/health", nil, authz.Allow},
		{"health_authenticated", http.MethodGet, "/health", userPrincipal(), authz.Allow},
		{"login_anonymous", http.MethodPost, "/api/auth/login", nil, authz.Allow},
		{"logout_anonymous", http.MethodPost, "/api/auth/logout", nil, authz.Allow},

		// Reads are open to both roles, writes to admin only.
		{"list_as_user", http.MethodGet, "/api/cursos", userPrincipal(), authz.Allow},
		{"get_as_user", http.MethodGet, "/api/cursos/7", userPrincipal(), authz.Allow},
		{"create_as_user", http.MethodPost, "/api/cursos", userPrincipal(), authz.DenyForbidden},
		{"delete_as_user", http.MethodDelete, "/api/cursos/7", userPrincipal(), authz.DenyForbidden},
		{"create_as_admin", http.MethodPost, "/api/cursos", adminPrincipal(), authz.Allow},
		{"delete_as_admin", http.MethodDelete, "/api/cursos/7", adminPrincipal(), authz.Allow},

		// Protected routes reject anonymous callers with 401, not 403.
		{"list_anonymous", http.MethodGet, "/api/cursos", nil, authz.DenyUnauthenticated},
		{"delete_anonymous", http.MethodDelete, "/api/cursos/7", nil, authz.DenyUnauthenticated},

		// Unlisted routes fall back to authenticated-any, never implicit public.
		{"unlisted_anonymous", http.MethodGet, "/api/reports", nil, authz.DenyUnauthenticated},
		{"unlisted_authenticated", http.MethodGet, "/api/reports", userPrincipal(), authz.Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Decide(tt.method, tt.path, tt.principal))
		})
	}
}

/*
TestPolicy_SegmentBoundary ensures prefix matching stops at path segment
boundaries: a rule for /api/cursos must not leak onto /api/cursosx.
*/
func TestPolicy_SegmentBoundary(t *testing.T) {
	policy := testPolicy()

	// No rule matches, so the default applies: authenticated-any.
	assert.Equal(t, authz.DenyUnauthenticated, policy.Decide(http.MethodGet, "/api/cursosx", nil))
	assert.Equal(t, authz.Allow, policy.Decide(http.MethodGet, "/api/cursosx", userPrincipal()))
	assert.Equal(t, authz.Allow, policy.Decide(http.MethodGet, "/healthz", userPrincipal()))
}

/*
TestPolicy_Specificity checks that the most specific (longest) path wins and
that declaration order breaks ties.
*/
func TestPolicy_Specificity(t *testing.T) {
	policy := authz.NewPolicy(
		authz.Require(authz.MethodAny, "/api", sec.RoleAdmin),
		authz.Public(http.MethodGet, "/api/public"),
		// Same path as the rule below, declared first: it wins ties.
		authz.Require(http.MethodGet, "/api/docs", sec.RoleAdmin, sec.RoleUser),
		authz.Require(authz.MethodAny, "/api/docs", sec.RoleAdmin),
	)

	// The longer /api/public rule beats the admin-only /api rule.
	assert.Equal(t, authz.Allow, policy.Decide(http.MethodGet, "/api/public", nil))
	assert.Equal(t, authz.Allow, policy.Decide(http.MethodGet, "/api/public/file.txt", nil))

	// Outside the public subtree the broader admin rule still applies.
	assert.Equal(t, authz.DenyForbidden, policy.Decide(http.MethodGet, "/api/other", userPrincipal()))

	// Tie on path length: the GET rule declared first admits users; the
	// catch-all sibling still holds for writes.
	assert.Equal(t, authz.Allow, policy.Decide(http.MethodGet, "/api/docs", userPrincipal()))
	assert.Equal(t, authz.DenyForbidden, policy.Decide(http.MethodPost, "/api/docs", userPrincipal()))
}

/*
TestPrincipal_HasAny pins the role intersection semantics the evaluator
relies on, in particular that an empty requirement never matches.
*/
func TestPrincipal_HasAny(t *testing.T) {
	principal := &sec.Principal{Username: "maria", Roles: []sec.Role{sec.RoleUser}}

	assert.True(t, principal.HasAny(sec.RoleUser))
	assert.True(t, principal.HasAny(sec.RoleAdmin, sec.RoleUser))
	assert.False(t, principal.HasAny(sec.RoleAdmin))
	assert.False(t, principal.HasAny())

	var nobody *sec.Principal
	assert.False(t, nobody.HasAny(sec.RoleUser))
}
