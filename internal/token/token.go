// Package token mints the unguessable identifiers behind public
// estimate links.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the entropy per token. 32 bytes keeps links far beyond
// brute-force reach even with the database exposed to timing probes.
const tokenBytes = 32

// New returns a URL-safe share token backed by crypto/rand.
func New() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
