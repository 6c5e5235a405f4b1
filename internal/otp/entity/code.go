package entity

import "time"

// Status is the lifecycle state of a code.
//
// Transitions are monotone: ACTIVE may become USED or EXPIRED, both of which
// are terminal.
type Status string

const (
	StatusUnknown Status = ""
	StatusActive  Status = "ACTIVE"
	StatusUsed    Status = "USED"
	StatusExpired Status = "EXPIRED"
)

// StatusFromString parses a status name. Unrecognized names yield StatusUnknown.
func StatusFromString(s string) Status {
	switch s {
	case StatusActive.String():
		return StatusActive
	case StatusUsed.String():
		return StatusUsed
	case StatusExpired.String():
		return StatusExpired
	default:
		return StatusUnknown
	}
}

// String returns the status name.
func (s Status) String() string {
	return string(s)
}

// Code is a single one-time passcode bound to a user and an optional
// operation. Value length equals the policy length in effect at generation
// time; leading zeros are allowed.
type Code struct {
	ID          int64
	UserID      int64
	OperationID string
	Value       string
	Status      Status
	CreatedAt   time.Time
}
