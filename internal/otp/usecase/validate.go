package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type ValidateInput struct {
	Code string `validate:"required,numeric"`
}

type ValidateOutput struct {
	Valid bool
}

// Validate consumes a code. It returns true at most once per code: absent,
// already-used, expired, and race-lost codes all come back false.
//
// Expiry is computed against the current policy TTL, not the TTL in effect
// at generation time, so a TTL change retroactively reinterprets issued
// codes. An expired hit also triggers a system-wide sweep before returning.
func (s *Usecase) Validate(ctx context.Context, in ValidateInput) (*ValidateOutput, error) {
	ctx, span := s.startSpan(ctx, "Validate")
	defer span.End()

	if _, err := role.Authorize(ctx, role.User); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	code, err := s.repoDB.FindByCode(ctx, in.Code)
	if errors.Is(err, goerror.ErrNotFound) {
		return &ValidateOutput{Valid: false}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to look up code", "error", err)
		return nil, goerror.NewServer(err)
	}

	if code.Status != entity.StatusActive {
		return &ValidateOutput{Valid: false}, nil
	}

	pol := s.policy.Get()
	expiry := code.CreatedAt.Add(pol.TTL())
	if s.clock.Now().After(expiry) {
		if _, err := s.SweepExpired(ctx); err != nil {
			slog.WarnContext(ctx, "expiry sweep after stale validate failed", "error", err)
		}
		return &ValidateOutput{Valid: false}, nil
	}

	used, err := s.repoDB.MarkUsed(ctx, code.ID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to mark code used", "code_id", code.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	// used is false when a concurrent validate consumed the code first.
	return &ValidateOutput{Valid: used}, nil
}
