package db

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

func (s *DB) CreateUser(ctx context.Context, in entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO users (id, username, password, role, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		in.ID, in.Username, in.Password, in.Role.String(), in.CreatedAt,
	)
	err = s.mapError(err)
	return err
}

func (s *DB) GetUserByUsername(ctx context.Context, username string) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByUsername")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	var roleName string
	err = s.conn.QueryRow(ctx, `
		SELECT id, username, password, role, created_at
		FROM users
		WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.Password, &roleName, &user.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	user.Role = role.FromString(roleName)
	return &user, nil
}

func (s *DB) GetUserByID(ctx context.Context, id int64) (_ *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByID")
	defer func() { s.endSpan(span, err) }()

	var user entity.User
	var roleName string
	err = s.conn.QueryRow(ctx, `
		SELECT id, username, password, role, created_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&user.ID, &user.Username, &user.Password, &roleName, &user.CreatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	user.Role = role.FromString(roleName)
	return &user, nil
}

func (s *DB) CountUsersByRole(ctx context.Context, r role.Role) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountUsersByRole")
	defer func() { s.endSpan(span, err) }()

	var count int64
	err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, r.String()).Scan(&count)
	if err != nil {
		return 0, s.mapError(err)
	}

	return count, nil
}

func (s *DB) ListUsersExcludingRole(ctx context.Context, excluded role.Role) (_ []entity.User, err error) {
	ctx, span := s.startSpan(ctx, "ListUsersExcludingRole")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, `
		SELECT id, username, role, created_at
		FROM users
		WHERE role <> $1
		ORDER BY id`,
		excluded.String(),
	)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		var user entity.User
		var roleName string
		if err = rows.Scan(&user.ID, &user.Username, &roleName, &user.CreatedAt); err != nil {
			return nil, s.mapError(err)
		}
		user.Role = role.FromString(roleName)
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, s.mapError(err)
	}

	return users, nil
}

// DeleteUserCascade removes the user row and all OTP codes issued to it in
// one transaction, so a partial failure never leaves orphan codes behind.
func (s *DB) DeleteUserCascade(ctx context.Context, id int64) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteUserCascade")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return s.mapError(err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx) //nolint:errcheck // rollback after failure
		}
	}()

	if _, err = tx.Exec(ctx, `DELETE FROM otp_codes WHERE user_id = $1`, id); err != nil {
		err = s.mapError(err)
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		err = s.mapError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = goerror.ErrNotFound
		return err
	}

	err = s.mapError(tx.Commit(ctx))
	return err
}
