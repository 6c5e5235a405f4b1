package entity

import (
	"time"

	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

// User is an account that can request and validate OTP codes.
//
// Username doubles as the delivery recipient address (email address, phone
// number, or chat handle depending on the requested channel).
type User struct {
	ID        int64
	Username  string
	Password  string // bcrypt hash, never the plaintext
	Role      role.Role
	CreatedAt time.Time
}
