// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

// Package auth implements local credential authentication: the application
// user entity, its credential store, and the login/logout use cases.
//
// # Architecture
//
// Sessions are stateless: a successful login mints a signed token and the
// server keeps nothing. The only mutable state this package touches is the
// user table (reads during verification) and a volatile failed-login counter.
package auth

import (
	"time"

	"github.com/contenedorjem/cursos/internal/platform/sec"
)

// User represents an application account used for authentication and
// authorization.
//
// # Rules
//   - Username is unique and non-empty.
//   - PasswordHash is generated via bcrypt exclusively by this package.
//   - Enabled=false blocks login AND retires outstanding tokens, because the
//     middleware re-reads this record on every authenticated request.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.Role  `json:"role"`
	Enabled      bool      `json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the account onto the read-only credential view consumed
// by the authentication middleware.
func (u *User) Identity() *sec.Identity {
	return &sec.Identity{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Enabled:      u.Enabled,
	}
}
