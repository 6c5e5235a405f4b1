package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type UserDeleteInput struct {
	ID int64 `validate:"required,gt=0"`
}

// UserDelete removes the user and every OTP code issued to it in one
// transaction. Requires an administrator caller.
func (s *Usecase) UserDelete(ctx context.Context, in UserDeleteInput) error {
	ctx, span := s.startSpan(ctx, "UserDelete")
	defer span.End()

	clm, err := role.Authorize(ctx, role.Admin)
	if err != nil {
		return err
	}

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	if err := s.repoDB.DeleteUserCascade(ctx, in.ID); err != nil {
		if errors.Is(err, goerror.ErrNotFound) {
			slog.WarnContext(ctx, "user not found", "user_id", in.ID)
			return goerror.NewBusiness("user not found", goerror.CodeNotFound)
		}
		slog.ErrorContext(ctx, "failed to delete user", "user_id", in.ID, "by_user_id", clm.UserID, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}
