package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTypeAccess is the value of the "type" claim carried by access tokens.
const TokenTypeAccess = "access"

// AccessClaims defines the claims carried by access tokens.
type AccessClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies short-lived, stateless access tokens.
type TokenService interface {
	// IssueAccessToken creates a signed access token whose subject is the account id.
	IssueAccessToken(accountID uuid.UUID) (string, error)

	// VerifyAccessToken checks signature, expiry and token type and returns the subject.
	VerifyAccessToken(token string) (uuid.UUID, error)

	// AccessTTL returns the configured lifetime of access tokens.
	AccessTTL() time.Duration
}

// RefreshTokenGenerator produces opaque refresh secrets and their lookup hashes.
// Unlike password hashing, the hash here is deterministic so it can be used as a lookup key.
type RefreshTokenGenerator interface {
	// Generate returns a new random URL-safe secret together with its hash.
	Generate() (raw string, hash string, err error)

	// Hash returns the lookup hash of a raw secret.
	Hash(raw string) string
}
