package uid

// NumberID generates unique numeric identifiers for database rows.
type NumberID interface {
	Generate() int64
}

// StringID generates unique string identifiers (correlation IDs, token IDs).
type StringID interface {
	Generate() string
}
