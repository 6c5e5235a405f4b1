package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
)

// SaveCode inserts a new ACTIVE code. A partial unique index on the value of
// ACTIVE codes turns a live-value collision into goerror.ErrConflict.
func (s *DB) SaveCode(ctx context.Context, in entity.Code) (err error) {
	ctx, span := s.startSpan(ctx, "SaveCode")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO otp_codes (id, user_id, operation_id, value, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		in.ID, in.UserID, in.OperationID, in.Value, in.Status.String(), in.CreatedAt,
	)
	err = s.mapError(err)
	return err
}

// FindByCode looks up a code by value regardless of status or owner.
func (s *DB) FindByCode(ctx context.Context, value string) (_ *entity.Code, err error) {
	ctx, span := s.startSpan(ctx, "FindByCode")
	defer func() { s.endSpan(span, err) }()

	var code entity.Code
	var status string
	err = s.conn.QueryRow(ctx, `
		SELECT id, user_id, operation_id, value, status, created_at
		FROM otp_codes
		WHERE value = $1
		ORDER BY created_at DESC
		LIMIT 1`,
		value,
	).Scan(&code.ID, &code.UserID, &code.OperationID, &code.Value, &status, &code.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	code.Status = entity.StatusFromString(status)
	return &code, nil
}

// FindAllByUser returns every code owned by the user, newest first.
func (s *DB) FindAllByUser(ctx context.Context, userID int64) (_ []entity.Code, err error) {
	ctx, span := s.startSpan(ctx, "FindAllByUser")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, user_id, operation_id, value, status, created_at
		FROM otp_codes
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var codes []entity.Code
	for rows.Next() {
		var code entity.Code
		var status string
		if err = rows.Scan(&code.ID, &code.UserID, &code.OperationID, &code.Value, &status, &code.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		code.Status = entity.StatusFromString(status)
		codes = append(codes, code)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return codes, nil
}

// MarkUsed transitions the code ACTIVE→USED. The status guard makes the
// transition a compare-and-set: the caller that loses a concurrent race gets
// false back instead of double-consuming the code.
func (s *DB) MarkUsed(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "MarkUsed")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE otp_codes
		SET status = $1
		WHERE id = $2 AND status = $3`,
		entity.StatusUsed.String(), id, entity.StatusActive.String(),
	)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkExpiredOlderThan bulk-expires every ACTIVE code created before the
// cutoff. Idempotent; running it twice changes nothing the second time.
func (s *DB) MarkExpiredOlderThan(ctx context.Context, cutoff time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "MarkExpiredOlderThan")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE otp_codes
		SET status = $1
		WHERE status = $2 AND created_at < $3`,
		entity.StatusExpired.String(), entity.StatusActive.String(), cutoff,
	)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

// GetRecipient resolves a user ID to its delivery address. Username doubles
// as the recipient address for every channel.
func (s *DB) GetRecipient(ctx context.Context, userID int64) (_ string, err error) {
	ctx, span := s.startSpan(ctx, "GetRecipient")
	defer func() { s.endSpan(span, err) }()

	var username string
	err = s.conn.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`, userID).Scan(&username)
	if err != nil {
		return "", s.mapError(err)
	}

	return username, nil
}
