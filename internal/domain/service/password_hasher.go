package service

// PasswordHasher performs one-way hashing of account passwords.
type PasswordHasher interface {
	// Hash generates a self-salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a stored hash in constant time.
	// A malformed hash is reported as a mismatch.
	Check(password, hash string) bool
}
