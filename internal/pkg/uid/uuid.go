package uid

import "github.com/google/uuid"

// UUID generates RFC 4122 UUID strings, preferring time-ordered v7 values
// so correlation IDs and token IDs sort roughly by creation time.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		// v7 needs a randomness source; fall back to v4 rather than fail.
		return uuid.NewString()
	}

	return id.String()
}
