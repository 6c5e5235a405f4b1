package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type PolicyOutput struct {
	Length     int
	TTLSeconds int64
}

// GetPolicy returns the current code policy. Requires an administrator caller.
func (s *Usecase) GetPolicy(ctx context.Context) (*PolicyOutput, error) {
	ctx, span := s.startSpan(ctx, "GetPolicy")
	defer span.End()

	if _, err := role.Authorize(ctx, role.Admin); err != nil {
		return nil, err
	}

	pol := s.policy.Get()
	return &PolicyOutput{
		Length:     pol.Length,
		TTLSeconds: pol.TTLSeconds,
	}, nil
}

type UpdatePolicyInput struct {
	Length     int   `validate:"required,gt=0"`
	TTLSeconds int64 `validate:"required,gt=0"`
}

// UpdatePolicy replaces the policy. Both fields must be strictly positive;
// a rejected update leaves the prior policy untouched. The new value is
// visible to the next generate or validate immediately, last write wins.
func (s *Usecase) UpdatePolicy(ctx context.Context, in UpdatePolicyInput) (*PolicyOutput, error) {
	ctx, span := s.startSpan(ctx, "UpdatePolicy")
	defer span.End()

	clm, err := role.Authorize(ctx, role.Admin)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	next := entity.Policy{Length: in.Length, TTLSeconds: in.TTLSeconds}
	if err := s.policy.Update(ctx, next); err != nil {
		slog.ErrorContext(ctx, "failed to update policy", "by_user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	slog.InfoContext(ctx, "code policy updated",
		"by_user_id", clm.UserID, "length", in.Length, "ttl_seconds", in.TTLSeconds)

	return &PolicyOutput{
		Length:     next.Length,
		TTLSeconds: next.TTLSeconds,
	}, nil
}
