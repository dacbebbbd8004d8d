package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLengthAndAlphabet(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)

	// 32 bytes of entropy encode to 43 unpadded base64url characters.
	assert.Len(t, tok, 43)
	for _, r := range tok {
		valid := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_'
		assert.True(t, valid, "unexpected character %q in token", r)
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok, err := New()
		require.NoError(t, err)
		require.False(t, seen[tok], "duplicate token generated")
		seen[tok] = true
	}
}
