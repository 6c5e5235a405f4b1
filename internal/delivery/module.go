package delivery

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/delivery/inbound"
	"github.com/shandysiswandi/otpgate/internal/delivery/outbound/chat"
	"github.com/shandysiswandi/otpgate/internal/delivery/outbound/email"
	"github.com/shandysiswandi/otpgate/internal/delivery/outbound/sms"
	"github.com/shandysiswandi/otpgate/internal/delivery/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

type Dependency struct {
	Ctx         context.Context
	HTTPClient  *http.Client
	Messaging   messaging.Messaging
	Idempotency idempotency.Idempotency
	Config      config.Config
	Instrument  instrument.Instrumentation
	UUID        uid.StringID
	Goroutine   *goroutine.Manager
	Validator   validator.Validator
	Mail        mail.Mail
}

// New wires the delivery module: one sender per channel and the issued-code
// consumer.
func New(dep Dependency) error {
	senders := map[event.Channel]usecase.Sender{
		event.ChannelEmail: email.New(dep.Mail, dep.Config, dep.Instrument),
		event.ChannelSMS:   sms.New(dep.HTTPClient, dep.Config, dep.Instrument),
		event.ChannelChat:  chat.New(dep.HTTPClient, dep.Config, dep.Instrument),
	}

	uc := usecase.New(usecase.Dependency{
		Senders:     senders,
		Idempotency: dep.Idempotency,
		Validator:   dep.Validator,
		Instrument:  dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
