// Package email delivers codes over SMTP.
package email

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

type Email struct {
	client mail.Mail
	cfg    config.Config
	ins    instrument.Instrumentation
}

func New(client mail.Mail, cfg config.Config, ins instrument.Instrumentation) *Email {
	return &Email{client: client, cfg: cfg, ins: ins}
}

// Send mails the code to the recipient address.
func (m *Email) Send(ctx context.Context, recipient, code string) error {
	ctx, span := m.ins.Tracer("delivery.outbound.email").Start(ctx, "Send")
	defer span.End()

	msg := mail.Message{
		From:     m.cfg.GetString("mail.sender"),
		To:       []string{recipient},
		Subject:  "Your one-time passcode",
		TextBody: fmt.Sprintf("Your one-time passcode is %s. It can be used once and expires shortly.", code),
	}

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
