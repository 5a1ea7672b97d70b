package data

import (
	"crypto/sha256"
	"testing"
	"time"

	"github.com/hafizmfadli/go-cinema/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	token, err := generateToken(1, 24*time.Hour, ScopeAuthentication)
	require.NoError(t, err)

	assert.Len(t, token.Plaintext, 26)
	assert.Equal(t, int64(1), token.UserID)
	assert.Equal(t, ScopeAuthentication, token.Scope)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), token.Expiry, time.Minute)

	// The stored hash must be the SHA-256 of the plaintext, so validation can
	// be a straight hashed lookup.
	hash := sha256.Sum256([]byte(token.Plaintext))
	assert.Equal(t, hash[:], token.Hash)
}

func TestGenerateTokenUnique(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		token, err := generateToken(1, time.Hour, ScopeAuthentication)
		require.NoError(t, err)
		assert.False(t, seen[token.Plaintext], "duplicate token generated")
		seen[token.Plaintext] = true
	}
}

func TestValidateTokenPlaintext(t *testing.T) {
	token, err := generateToken(1, time.Hour, ScopeAuthentication)
	require.NoError(t, err)

	v := validator.New()
	ValidateTokenPlaintext(v, token.Plaintext)
	assert.True(t, v.Valid())

	v = validator.New()
	ValidateTokenPlaintext(v, "")
	assert.Contains(t, v.Errors, "token")

	v = validator.New()
	ValidateTokenPlaintext(v, "too-short")
	assert.Contains(t, v.Errors, "token")
}
