// Package jwt provides signed session token generation and verification,
// plus helpers for carrying verified claims through a request context.
package jwt
