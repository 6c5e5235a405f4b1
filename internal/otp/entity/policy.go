package entity

import "time"

// Policy is the runtime-mutable code policy. It is a process-wide singleton;
// both fields must stay strictly positive.
type Policy struct {
	Length     int
	TTLSeconds int64
}

// DefaultPolicy seeds the policy row on first start.
var DefaultPolicy = Policy{Length: 6, TTLSeconds: 300}

// TTL returns the validity window as a duration.
func (p Policy) TTL() time.Duration {
	return time.Duration(p.TTLSeconds) * time.Second
}

// Valid reports whether both fields are strictly positive.
func (p Policy) Valid() bool {
	return p.Length > 0 && p.TTLSeconds > 0
}
