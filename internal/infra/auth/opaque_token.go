package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"smarttrack/internal/domain/service"
	"smarttrack/internal/errors"
)

// refreshSecretBytes is the amount of randomness in each refresh secret (512 bits).
const refreshSecretBytes = 64

// opaqueTokenGenerator generates URL-safe random refresh secrets and their SHA-256 lookup hashes.
type opaqueTokenGenerator struct{}

// NewOpaqueTokenGenerator is the constructor for opaqueTokenGenerator.
func NewOpaqueTokenGenerator() service.RefreshTokenGenerator {
	return &opaqueTokenGenerator{}
}

// Generate returns a new raw secret and the hash that should be persisted instead of it.
func (g *opaqueTokenGenerator) Generate() (string, string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", errors.Wrap(err, "failed to read random bytes")
	}

	raw := base64.RawURLEncoding.EncodeToString(buf)

	return raw, g.Hash(raw), nil
}

// Hash returns the hex-encoded SHA-256 digest of the raw secret.
func (g *opaqueTokenGenerator) Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))

	return hex.EncodeToString(sum[:])
}
