// Copyright (c) 2025 Kei Tanabe.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// tokenAlphabet is the fixed alphabet for opaque tokens. Alphanumeric
// only so tokens survive URLs, copy-paste, and calendar apps untouched.
const tokenAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// TokenLength is the length of share and participant access tokens.
// 26 base62 characters carry just under 155 bits of entropy.
const TokenLength = 26

// Share URL path prefixes per token kind.
const (
	AdminPathPrefix       = "/a/"
	ParticipantPathPrefix = "/p/"
)

// GenerateToken creates a cryptographically random token of n characters
// drawn from the fixed alphabet.
func GenerateToken(n int) (string, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	out := make([]byte, n)
	for i, v := range b {
		out[i] = tokenAlphabet[int(v)%len(tokenAlphabet)]
	}
	return string(out), nil
}

// BuildShareURL joins the trusted base URL with the kind-specific path
// prefix and the token. kind must be "admin" or "participant".
func BuildShareURL(baseURL, kind, token string) string {
	prefix := ParticipantPathPrefix
	if kind == "admin" {
		prefix = AdminPathPrefix
	}
	return strings.TrimRight(baseURL, "/") + prefix + token
}
