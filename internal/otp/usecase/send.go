package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type SendInput struct {
	UserID      int64  `validate:"required,gt=0"`
	OperationID string `validate:"max=128"`
	Channel     string `validate:"required"`
}

type SendOutput struct {
	CodeID    int64
	ExpiresAt time.Time
}

// Send resolves the recipient, generates a code, and hands it to the
// delivery module over messaging. The code is durably persisted and already
// valid before delivery is attempted; a publish failure leaves it usable.
func (s *Usecase) Send(ctx context.Context, in SendInput) (*SendOutput, error) {
	ctx, span := s.startSpan(ctx, "Send")
	defer span.End()

	if _, err := role.Authorize(ctx, role.User); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	channel := event.ChannelFromString(in.Channel)
	if !channel.Known() {
		return nil, goerror.NewInvalidInput(errors.New("unrecognized channel"), "channel", "must be EMAIL, SMS, or CHAT")
	}

	recipient, err := s.repoDB.GetRecipient(ctx, in.UserID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "user not found", "user_id", in.UserID)
		return nil, goerror.NewBusiness("user not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to resolve recipient", "user_id", in.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	gen, err := s.Generate(ctx, GenerateInput{UserID: in.UserID, OperationID: in.OperationID})
	if err != nil {
		return nil, err
	}

	if err := s.repoMessaging.PublishOTPIssued(ctx, OTPIssuedEvent{
		CodeID:    gen.CodeID,
		UserID:    in.UserID,
		Recipient: recipient,
		Channel:   channel.String(),
		Code:      gen.Code,
		ExpiresAt: gen.ExpiresAt.Unix(),
	}); err != nil {
		// The code stays valid; the user can retry delivery or validate via
		// another path.
		slog.ErrorContext(ctx, "failed to publish issued code event",
			"user_id", in.UserID, "code_id", gen.CodeID, "error", err)
	}

	return &SendOutput{
		CodeID:    gen.CodeID,
		ExpiresAt: gen.ExpiresAt,
	}, nil
}
