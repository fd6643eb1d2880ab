package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecretFormat(t *testing.T) {
	for i := 0; i < 200; i++ {
		secret, err := GenerateSecret()
		require.NoError(t, err)
		assert.Len(t, secret, 6)
		assert.True(t, ValidSecretFormat(secret), "secret %q should be six digits", secret)
		assert.GreaterOrEqual(t, secret, "100000")
		assert.LessOrEqual(t, secret, "999999")
	}
}

func TestValidSecretFormat(t *testing.T) {
	assert.True(t, ValidSecretFormat("123456"))
	assert.False(t, ValidSecretFormat(""))
	assert.False(t, ValidSecretFormat("12345"))
	assert.False(t, ValidSecretFormat("1234567"))
	assert.False(t, ValidSecretFormat("12345a"))
	assert.False(t, ValidSecretFormat(" 123456"))
}

func TestDigestSecretDeterministic(t *testing.T) {
	a := DigestSecret("482913")
	b := DigestSecret("482913")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, DigestSecret("482914"))
}

func TestSecretMatches(t *testing.T) {
	digest := DigestSecret("482913")
	assert.True(t, SecretMatches(digest, "482913"))
	assert.False(t, SecretMatches(digest, "482914"))
	assert.False(t, SecretMatches(digest, ""))
}

func TestNewCapabilityToken(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		token, err := NewCapabilityToken()
		require.NoError(t, err)
		assert.Len(t, token, 32)
		_, dup := seen[token]
		assert.False(t, dup, "token %q issued twice", token)
		seen[token] = struct{}{}
	}
}
