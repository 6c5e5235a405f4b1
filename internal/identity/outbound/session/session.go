// Package session implements the bearer session store: a signed JWT carries
// the identity and role snapshot, and a Redis record keyed by token ID makes
// the session revocable before its natural expiry.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"go.opentelemetry.io/otel/trace"
)

// ErrSessionRevoked is returned when the token verifies but its record is gone.
var ErrSessionRevoked = errors.New("session: token has been revoked")

// RecordStore tracks which token IDs are still live.
type RecordStore interface {
	Save(ctx context.Context, tokenID string, userID int64, ttl time.Duration) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) error
}

// Store issues, resolves, and revokes bearer sessions.
type Store struct {
	jwt     jwt.JWT
	records RecordStore
	clock   clock.Clocker
	ins     instrument.Instrumentation
}

// New constructs a session store.
func New(signer jwt.JWT, records RecordStore, clk clock.Clocker, ins instrument.Instrumentation) *Store {
	return &Store{
		jwt:     signer,
		records: records,
		clock:   clk,
		ins:     ins,
	}
}

func (s *Store) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.outbound.session").Start(ctx, name)
}

// Issue creates a signed token for the user and registers its record.
func (s *Store) Issue(ctx context.Context, user entity.User) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "Issue")
	defer span.End()

	token, err := s.jwt.Generate(user.ID, user.Username, user.Role.String())
	if err != nil {
		return "", err
	}

	// The token ID and expiry live inside the signed claims; verify our own
	// token to read them back.
	claims, err := s.jwt.Verify(token)
	if err != nil {
		return "", err
	}

	ttl := claims.ExpiresAt.Time.Sub(s.clock.Now())
	if err := s.records.Save(ctx, claims.ID, user.ID, ttl); err != nil {
		return "", err
	}

	return token, nil
}

// Resolve verifies the token and checks its record is still live.
// Malformed, expired, and revoked tokens all fail resolution.
func (s *Store) Resolve(ctx context.Context, token string) (_ jwt.Claims, err error) {
	ctx, span := s.startSpan(ctx, "Resolve")
	defer span.End()

	claims, err := s.jwt.Verify(token)
	if err != nil {
		return jwt.Claims{}, err
	}

	live, err := s.records.Exists(ctx, claims.ID)
	if err != nil {
		return jwt.Claims{}, err
	}
	if !live {
		return jwt.Claims{}, ErrSessionRevoked
	}

	return claims, nil
}

// Revoke deletes the session record so the token stops resolving immediately.
// Revoking an already-dead token is a no-op.
func (s *Store) Revoke(ctx context.Context, token string) (err error) {
	ctx, span := s.startSpan(ctx, "Revoke")
	defer span.End()

	claims, err := s.jwt.Verify(token)
	if err != nil {
		return nil
	}

	return s.records.Delete(ctx, claims.ID)
}
