package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/event"
)

type sentMessage struct {
	recipient string
	code      string
}

type fakeSender struct {
	err  error
	sent []sentMessage
}

func (f *fakeSender) Send(_ context.Context, recipient, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{recipient: recipient, code: code})
	return nil
}

// fakeIdempotency remembers completed keys so a replayed event short-circuits.
type fakeIdempotency struct {
	done map[string]bool
}

func (f *fakeIdempotency) Exec(ctx context.Context, key string, fn func(context.Context) error, _ ...idempotency.Option) error {
	if f.done == nil {
		f.done = make(map[string]bool)
	}
	if f.done[key] {
		return idempotency.ErrAlreadyCompleted
	}
	if err := fn(ctx); err != nil {
		return err
	}
	f.done[key] = true
	return nil
}

func newTestUsecase(t *testing.T, senders map[event.Channel]Sender, idemp idempotency.Idempotency) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("NewV10Validator() error = %v", err)
	}

	return New(Dependency{
		Senders:     senders,
		Idempotency: idemp,
		Validator:   v,
		Instrument:  instrument.NewNoop(),
	})
}

func validInput() ConsumeOTPIssuedInput {
	return ConsumeOTPIssuedInput{
		CodeID:    101,
		UserID:    7,
		Recipient: "alice@example.com",
		Channel:   "EMAIL",
		Code:      "482913",
		ExpiresAt: 1756382400,
	}
}

func TestUsecase_ConsumeOTPIssued(t *testing.T) {
	t.Run("delivers over the requested channel", func(t *testing.T) {
		emailSender := &fakeSender{}
		smsSender := &fakeSender{}
		uc := newTestUsecase(t, map[event.Channel]Sender{
			event.ChannelEmail: emailSender,
			event.ChannelSMS:   smsSender,
		}, &fakeIdempotency{})

		if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
			t.Fatalf("ConsumeOTPIssued() error = %v", err)
		}

		if len(emailSender.sent) != 1 {
			t.Fatalf("email sends = %d, want 1", len(emailSender.sent))
		}
		if got := emailSender.sent[0]; got.recipient != "alice@example.com" || got.code != "482913" {
			t.Errorf("sent = %+v", got)
		}
		if len(smsSender.sent) != 0 {
			t.Errorf("sms sends = %d, want 0", len(smsSender.sent))
		}
	})

	t.Run("duplicate event is skipped without a resend", func(t *testing.T) {
		emailSender := &fakeSender{}
		uc := newTestUsecase(t, map[event.Channel]Sender{
			event.ChannelEmail: emailSender,
		}, &fakeIdempotency{})

		in := validInput()
		if err := uc.ConsumeOTPIssued(context.Background(), in); err != nil {
			t.Fatalf("first ConsumeOTPIssued() error = %v", err)
		}
		if err := uc.ConsumeOTPIssued(context.Background(), in); err != nil {
			t.Fatalf("second ConsumeOTPIssued() error = %v", err)
		}

		if len(emailSender.sent) != 1 {
			t.Errorf("email sends = %d, want 1", len(emailSender.sent))
		}
	})

	t.Run("unknown channel is dropped", func(t *testing.T) {
		emailSender := &fakeSender{}
		uc := newTestUsecase(t, map[event.Channel]Sender{
			event.ChannelEmail: emailSender,
		}, &fakeIdempotency{})

		in := validInput()
		in.Channel = "CARRIER_PIGEON"
		if err := uc.ConsumeOTPIssued(context.Background(), in); err != nil {
			t.Fatalf("ConsumeOTPIssued() error = %v", err)
		}
		if len(emailSender.sent) != 0 {
			t.Errorf("email sends = %d, want 0", len(emailSender.sent))
		}
	})

	t.Run("malformed event is dropped", func(t *testing.T) {
		emailSender := &fakeSender{}
		uc := newTestUsecase(t, map[event.Channel]Sender{
			event.ChannelEmail: emailSender,
		}, &fakeIdempotency{})

		in := validInput()
		in.Recipient = ""
		if err := uc.ConsumeOTPIssued(context.Background(), in); err != nil {
			t.Fatalf("ConsumeOTPIssued() error = %v", err)
		}
		if len(emailSender.sent) != 0 {
			t.Errorf("email sends = %d, want 0", len(emailSender.sent))
		}
	})

	t.Run("send failure surfaces a delivery error", func(t *testing.T) {
		emailSender := &fakeSender{err: errors.New("smtp: connection refused")}
		uc := newTestUsecase(t, map[event.Channel]Sender{
			event.ChannelEmail: emailSender,
		}, &fakeIdempotency{})

		err := uc.ConsumeOTPIssued(context.Background(), validInput())
		if err == nil {
			t.Fatal("ConsumeOTPIssued() error = nil, want delivery error")
		}

		var gerr *goerror.Error
		if !errors.As(err, &gerr) {
			t.Fatalf("error type = %T, want *goerror.Error", err)
		}
		if gerr.Code() != goerror.CodeDeliveryFailed {
			t.Errorf("code = %v, want %v", gerr.Code(), goerror.CodeDeliveryFailed)
		}
	})

	t.Run("failed send can be retried after state clears", func(t *testing.T) {
		emailSender := &fakeSender{err: errors.New("gateway timeout")}
		uc := newTestUsecase(t, map[event.Channel]Sender{
			event.ChannelEmail: emailSender,
		}, &fakeIdempotency{})

		if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err == nil {
			t.Fatal("first attempt error = nil, want delivery error")
		}

		emailSender.err = nil
		if err := uc.ConsumeOTPIssued(context.Background(), validInput()); err != nil {
			t.Fatalf("retry error = %v", err)
		}
		if len(emailSender.sent) != 1 {
			t.Errorf("email sends = %d, want 1", len(emailSender.sent))
		}
	})
}
