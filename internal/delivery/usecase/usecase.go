package usecase

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
	"go.opentelemetry.io/otel/trace"
)

// Sender delivers a code to a recipient address over one channel.
type Sender interface {
	Send(ctx context.Context, recipient, code string) error
}

type Usecase struct {
	senders   map[event.Channel]Sender
	idemp     idempotency.Idempotency
	validator validator.Validator
	ins       instrument.Instrumentation
}

type Dependency struct {
	// Senders must cover the closed channel set; dispatch rejects anything
	// outside it.
	Senders     map[event.Channel]Sender
	Idempotency idempotency.Idempotency
	Validator   validator.Validator
	Instrument  instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		senders:   dep.Senders,
		idemp:     dep.Idempotency,
		validator: dep.Validator,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("delivery.usecase").Start(ctx, name)
}
