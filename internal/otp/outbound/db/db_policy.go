package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
)

// GetPolicy reads the singleton policy row.
func (s *DB) GetPolicy(ctx context.Context) (_ *entity.Policy, err error) {
	ctx, span := s.startSpan(ctx, "GetPolicy")
	defer func() { s.endSpan(span, err) }()

	var policy entity.Policy
	err = s.conn.QueryRow(ctx, `
		SELECT length, ttl_seconds
		FROM otp_policy
		WHERE id = 1`,
	).Scan(&policy.Length, &policy.TTLSeconds)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &policy, nil
}

// UpsertPolicy replaces the singleton policy row atomically.
func (s *DB) UpsertPolicy(ctx context.Context, in entity.Policy) (err error) {
	ctx, span := s.startSpan(ctx, "UpsertPolicy")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO otp_policy (id, length, ttl_seconds)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET length = EXCLUDED.length, ttl_seconds = EXCLUDED.ttl_seconds`,
		in.Length, in.TTLSeconds,
	)
	err = s.mapError(err)
	return err
}
