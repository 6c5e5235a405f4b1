package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

type (
	ConsumeOTPIssuedInput struct {
		CodeID    int64  `validate:"required,gt=0"`
		UserID    int64  `validate:"required,gt=0"`
		Recipient string `validate:"required"`
		Channel   string `validate:"required"`
		Code      string `validate:"required"`
		ExpiresAt int64
	}
)

// ConsumeOTPIssued delivers a freshly issued code. The idempotency guard
// keyed by code ID absorbs broker redeliveries of an already-delivered
// event; a genuine send failure is returned so the broker redelivers.
// The code row itself is never touched on failure.
func (s *Usecase) ConsumeOTPIssued(ctx context.Context, in ConsumeOTPIssuedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeOTPIssued")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	channel := event.ChannelFromString(in.Channel)
	sender, ok := s.senders[channel]
	if !ok {
		slog.ErrorContext(ctx, "no sender for channel", "channel", in.Channel, "code_id", in.CodeID)
		return nil
	}

	key := "otp_issued:" + strconv.FormatInt(in.CodeID, 10)
	err := s.idemp.Exec(ctx, key, func(ctx context.Context) error {
		return sender.Send(ctx, in.Recipient, in.Code)
	})

	switch {
	case err == nil:
		return nil

	case errors.Is(err, idempotency.ErrAlreadyCompleted),
		errors.Is(err, idempotency.ErrAlreadyInProgress):
		slog.InfoContext(ctx, "skip duplicate issued code event", "code_id", in.CodeID)
		return nil

	default:
		slog.ErrorContext(ctx, "failed to deliver code",
			"code_id", in.CodeID, "channel", in.Channel, "error", err)
		return goerror.NewDelivery(err)
	}
}
