package entity

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken represents a long-lived session of an account on one device.
// Only a one-way hash of the secret handed to the client is ever stored.
type RefreshToken struct {
	ID        uuid.UUID // The unique ID for this specific refresh token record.
	AccountID uuid.UUID // The account that owns this session.
	TokenHash string    // Hex SHA-256 of the raw secret.
	ExpiresAt time.Time // After this instant the token can no longer be exchanged.
	Revoked   bool      // Flipped to true on logout; never flipped back.
	CreatedAt time.Time // When the session was created.
}

// Valid reports whether the token can still be exchanged at the given instant.
func (t *RefreshToken) Valid(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}
