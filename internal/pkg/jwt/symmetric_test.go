package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
)

type staticUUID struct{ id string }

func (s staticUUID) Generate() string { return s.id }

func testConfig(now time.Time, ttl time.Duration) Config {
	return Config{
		Secret:    []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		Issuer:    "otpgate",
		Audiences: []string{"otpgate-api"},
		TTL:       ttl,
		Clock:     &clock.Static{At: now},
		UUID:      staticUUID{id: "token-id-1"},
	}
}

func TestNewHS512_ShortSecret(t *testing.T) {
	cfg := testConfig(time.Now(), time.Minute)
	cfg.Secret = []byte("too-short")

	if _, err := NewHS512(cfg); !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("NewHS512() error = %v, want ErrSigningKeyTooShort", err)
	}
}

func TestSymmetric_GenerateVerify(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	s, err := NewHS512(testConfig(now, 30*time.Minute))
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	token, err := s.Generate(42, "alice", "ADMIN")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username = %q, want alice", claims.Username)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("Role = %q, want ADMIN", claims.Role)
	}
	if claims.ID != "token-id-1" {
		t.Errorf("ID = %q, want token-id-1", claims.ID)
	}
}

func TestSymmetric_VerifyExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)

	s, err := NewHS512(testConfig(issued, time.Minute))
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	token, err := s.Generate(1, "bob", "USER")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := s.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestSymmetric_VerifyTampered(t *testing.T) {
	now := time.Now()

	s, err := NewHS512(testConfig(now, time.Minute))
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	token, err := s.Generate(1, "bob", "USER")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	other := testConfig(now, time.Minute)
	other.Secret = []byte("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")

	s2, err := NewHS512(other)
	if err != nil {
		t.Fatalf("NewHS512() error = %v", err)
	}

	if _, err := s2.Verify(token); err == nil {
		t.Fatal("Verify() expected error for token signed with different key")
	}
}
