package service

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
)

const (
	secretMin  = 100000
	secretSpan = 900000
)

var secretPattern = regexp.MustCompile(`^[0-9]{6}$`)

// GenerateSecret draws a 6-digit one-time code uniformly from
// [100000, 999999].
func GenerateSecret() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(secretSpan))
	if err != nil {
		return "", fmt.Errorf("draw secret: %w", err)
	}
	return fmt.Sprintf("%06d", secretMin+n.Int64()), nil
}

// DigestSecret returns the hex-encoded SHA-256 digest stored in place of the
// plaintext for verification.
func DigestSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// SecretMatches compares a provided secret against the stored digest in
// constant time.
func SecretMatches(storedDigest, provided string) bool {
	computed := DigestSecret(provided)
	return subtle.ConstantTimeCompare([]byte(storedDigest), []byte(computed)) == 1
}

// ValidSecretFormat reports whether the input is a well-formed 6-digit code.
func ValidSecretFormat(secret string) bool {
	return secretPattern.MatchString(secret)
}

// NewCapabilityToken returns a fresh 128-bit bearer token. A new one is
// issued at creation and again at the moment of successful verification,
// invalidating the original link.
func NewCapabilityToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("draw capability token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
