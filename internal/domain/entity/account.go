// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	domainerrors "smarttrack/internal/domain/errors"

	"github.com/google/uuid"
)

// ProviderType names an external identity provider.
type ProviderType string

const (
	// ProviderTypeEmail marks credentials verified locally with a password hash.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle marks a Google federated identity.
	ProviderTypeGoogle ProviderType = "google"
)

// Account is the core entity in the system: one person, reachable by one or more
// authentication methods. Email is the natural merge key across those methods.
type Account struct {
	ID           uuid.UUID  // Generated on creation.
	Email        string     // Unique; compared exactly as stored.
	FullName     string     // Display name.
	PasswordHash string     // bcrypt hash, empty for federation-only accounts.
	GoogleID     string     // Google 'sub' claim, empty when no Google identity is linked.
	AvatarURL    string     // Optional avatar reference.
	Active       bool       // Deactivated accounts cannot obtain new sessions.
	Verified     bool       // True once an identity provider has attested the email.
	CreatedAt    time.Time  // Timestamp of when the account was created.
	UpdatedAt    time.Time  // Timestamp of the last modification.
	LastLoginAt  *time.Time // Nil until the first successful sign-in.
}

// HasPassword reports whether the account can sign in with email and password.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// HasFederatedIdentity reports whether a Google identity is linked.
func (a *Account) HasFederatedIdentity() bool {
	return a.GoogleID != ""
}

// Validate enforces that the account keeps at least one usable authentication method.
func (a *Account) Validate() error {
	if !a.HasPassword() && !a.HasFederatedIdentity() {
		return domainerrors.ErrNoAuthMethod
	}

	return nil
}

// MarkLoggedIn stamps the last-login time.
func (a *Account) MarkLoggedIn(now time.Time) {
	at := now
	a.LastLoginAt = &at
}

// EmailLocalPart returns the part of an email address before the '@'.
func EmailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return email
	}

	return local
}
