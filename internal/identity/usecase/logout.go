package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

type LogoutInput struct {
	Token string `validate:"required"`
}

// Logout revokes the caller's session token. The token stops resolving
// immediately even though it has not yet reached its natural expiry.
func (s *Usecase) Logout(ctx context.Context, in LogoutInput) error {
	ctx, span := s.startSpan(ctx, "Logout")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return goerror.NewBusiness("Authentication required", goerror.CodeUnauthenticated)
	}

	if err := s.sessions.Revoke(ctx, in.Token); err != nil {
		slog.ErrorContext(ctx, "failed to revoke session token", "user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
