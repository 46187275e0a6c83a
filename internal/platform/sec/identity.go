// Copyright (c) 2026 Contenedor JEM. All rights reserved.
// Author: jem@contenedorjem.dev

package sec

// Identity is the credential-store view of an account as the authentication
// layer needs it: just enough to verify a password, bind a token subject, and
// derive current authority.
//
// The full account entity (IDs, timestamps) belongs to the auth domain; this
// read-only projection keeps the middleware decoupled from it.
type Identity struct {
	Username     string
	PasswordHash string
	Role         Role
	Enabled      bool
}
