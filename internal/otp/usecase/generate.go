package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

// maxGenerateAttempts bounds retries when a generated value collides with
// another ACTIVE code.
const maxGenerateAttempts = 3

type GenerateInput struct {
	UserID      int64  `validate:"required,gt=0"`
	OperationID string `validate:"max=128"`
}

type GenerateOutput struct {
	CodeID    int64
	Code      string
	ExpiresAt time.Time
}

// Generate issues a new ACTIVE code of the current policy length. It does
// not require the user to exist; user resolution belongs to Send.
func (s *Usecase) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	ctx, span := s.startSpan(ctx, "Generate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	pol := s.policy.Get()

	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		value, err := randomDigits(pol.Length)
		if err != nil {
			slog.ErrorContext(ctx, "failed to read random digits", "error", err)
			return nil, goerror.NewServer(err)
		}

		code := entity.Code{
			ID:          s.uid.Generate(),
			UserID:      in.UserID,
			OperationID: in.OperationID,
			Value:       value,
			Status:      entity.StatusActive,
			CreatedAt:   s.clock.Now(),
		}

		err = s.repoDB.SaveCode(ctx, code)
		if errors.Is(err, goerror.ErrConflict) {
			slog.WarnContext(ctx, "generated code collided with a live code",
				"user_id", in.UserID, "attempt", attempt)
			continue
		}
		if err != nil {
			slog.ErrorContext(ctx, "failed to save code", "user_id", in.UserID, "error", err)
			return nil, goerror.NewServer(err)
		}

		return &GenerateOutput{
			CodeID:    code.ID,
			Code:      code.Value,
			ExpiresAt: code.CreatedAt.Add(pol.TTL()),
		}, nil
	}

	err := errors.New("exhausted attempts to produce a unique code")
	slog.ErrorContext(ctx, "code generation gave up", "user_id", in.UserID, "attempts", maxGenerateAttempts)
	return nil, goerror.NewServer(err)
}
