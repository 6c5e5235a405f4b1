package hash

// Hash hashes plaintext values and verifies hashed values.
type Hash interface {
	// Hash derives a hashed value from plaintext.
	Hash(plaintext string) ([]byte, error)
	// Verify reports whether plaintext matches the hashed value.
	Verify(hashed, plaintext string) bool
}
