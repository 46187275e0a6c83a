// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

// Package authz implements the route authorization policy.
//
// # Architecture
//
// Instead of scattering role checks across individual handlers, every rule
// lives in one static table consulted exactly once per request by the
// enforcement middleware. The table is built at startup and read-only
// afterwards, so concurrent requests evaluate it without locking. This
// centralizes the access matrix and makes it independently testable.
package authz

import (
	"strings"

	"github.com/contenedorjem/cursos/internal/platform/sec"
)

// Decision is the outcome of a policy evaluation.
type Decision int

const (
	// Allow lets the request proceed to its handler.
	Allow Decision = iota

	// DenyUnauthenticated rejects an anonymous request to a protected route.
	// The boundary maps it to HTTP 401.
	DenyUnauthenticated

	// DenyForbidden rejects an authenticated caller whose role set does not
	// intersect the rule's required roles. The boundary maps it to HTTP 403.
	DenyForbidden
)

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case DenyUnauthenticated:
		return "deny_unauthenticated"
	case DenyForbidden:
		return "deny_forbidden"
	default:
		return "unknown"
	}
}

// MethodAny matches every HTTP verb in a [Rule].
const MethodAny = "*"

// Rule maps one route pattern + HTTP verb to a required role set.
//
// # Matching
//
// Path is a segment-boundary prefix: "/api/cursos" matches "/api/cursos"
// itself and anything below it ("/api/cursos/7"), but never "/api/cursosx".
// A nil/empty Roles slice marks the route public.
type Rule struct {
	Method string
	Path   string
	Roles  []sec.Role
}

// matches reports whether the rule covers the given method and path.
func (r Rule) matches(method, path string) bool {
	if r.Method != MethodAny && r.Method != method {
		return false
	}
	if path == r.Path {
		return true
	}
	return strings.HasPrefix(path, r.Path) && path[len(r.Path)] == '/'
}

// public reports whether the rule requires no role at all.
func (r Rule) public() bool {
	return len(r.Roles) == 0
}

// Public builds a rule that allows every caller, authenticated or not.
func Public(method, path string) Rule {
	return Rule{Method: method, Path: path}
}

// Require builds a rule that demands at least one of the given roles.
func Require(method, path string, roles ...sec.Role) Rule {
	return Rule{Method: method, Path: path, Roles: roles}
}

// Policy is the immutable rule table shared by all requests.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from rules in declaration order.
//
// Declaration order is significant: when two rules match a request with the
// same path specificity, the one declared first wins.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// Decide evaluates the policy for one request.
//
// # Resolution
//
//  1. Collect matching rules; the longest (most specific) path wins, ties
//     broken by declaration order.
//  2. A public winning rule allows regardless of principal.
//  3. Otherwise the principal's role set must intersect the rule's roles.
//  4. No matching rule at all falls back to default-deny: any authenticated
//     principal passes, anonymous callers do not. Nothing is implicitly public.
func (p *Policy) Decide(method, path string, principal *sec.Principal) Decision {
	var winner *Rule
	for i := range p.rules {
		rule := &p.rules[i]
		if !rule.matches(method, path) {
			continue
		}
		// Strictly longer beats the current winner; equal length keeps the
		// earlier declaration.
		if winner == nil || len(rule.Path) > len(winner.Path) {
			winner = rule
		}
	}

	if winner == nil {
		if principal == nil {
			return DenyUnauthenticated
		}
		return Allow
	}

	if winner.public() {
		return Allow
	}

	if principal == nil {
		return DenyUnauthenticated
	}

	if !principal.HasAny(winner.Roles...) {
		return DenyForbidden
	}

	return Allow
}
