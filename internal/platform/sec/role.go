// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package sec

// # Application Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Full access: read and mutate courses, students, and users.
	RoleAdmin Role = "admin"

	// Read-only access to courses and students.
	RoleUser Role = "user"
)

// Valid reports whether the role is one of the known application roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// # Resolved Principal

// Principal is the request-scoped identity resolved by the authentication
// middleware: the authoritative username and role set of the caller.
//
// # Lifetime
//
// A Principal lives only inside one request's context. It is rebuilt from the
// credential store on every request, so the roles here are always current,
// never the (possibly stale) roles embedded in the token.
type Principal struct {
	Username string
	Roles    []Role
}

// HasAny reports whether the principal holds at least one of the required roles.
//
// An empty required set never matches; public routes are expressed at the
// policy level, not by passing zero roles here.
func (p *Principal) HasAny(required ...Role) bool {
	if p == nil {
		return false
	}
	for _, want := range required {
		for _, have := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// RoleStrings returns the principal's roles as plain strings, the form they
// take inside token claims.
func (p *Principal) RoleStrings() []string {
	out := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		out = append(out, string(r))
	}
	return out
}
