// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides opaque token generation and share URL construction.

# Tokens

Tokens are cryptographically random strings over a fixed base62 alphabet:

	token, err := auth.GenerateToken(auth.TokenLength)

The same generator backs the two project share tokens (admin and
participant) and the per-participant access token. Tokens are opaque
capability identifiers, not a designed security boundary; anyone holding
the admin URL holds admin capability.

# Share URLs

Canonical URLs join a trusted base URL with a kind-specific prefix:

	auth.BuildShareURL("https://meetslot.example", "admin", token)
	// https://meetslot.example/a/<token>
*/
package auth
