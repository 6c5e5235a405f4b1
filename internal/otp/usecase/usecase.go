package usecase

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// OTPIssuedEvent carries a freshly issued code to the delivery module.
type OTPIssuedEvent struct {
	CodeID    int64
	UserID    int64
	Recipient string
	Channel   string
	Code      string
	ExpiresAt int64
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

type repoDB interface {
	SaveCode(ctx context.Context, in entity.Code) error
	FindByCode(ctx context.Context, value string) (*entity.Code, error)
	FindAllByUser(ctx context.Context, userID int64) ([]entity.Code, error)
	MarkUsed(ctx context.Context, id int64) (bool, error)
	MarkExpiredOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	GetRecipient(ctx context.Context, userID int64) (string, error)
}

type policyStore interface {
	Get() entity.Policy
	Update(ctx context.Context, in entity.Policy) error
}

type Usecase struct {
	repoDB        repoDB
	policy        policyStore
	repoMessaging repoMessaging
	validator     validator.Validator
	cfg           config.Config
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	Policy        policyStore
	RepoMessaging repoMessaging
	Validator     validator.Validator
	Config        config.Config
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		policy:        dep.Policy,
		repoMessaging: dep.RepoMessaging,
		validator:     dep.Validator,
		cfg:           dep.Config,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

// randomDigits returns n uniformly distributed decimal digits from the
// crypto/rand source. Leading zeros are allowed.
func randomDigits(n int) (string, error) {
	ten := big.NewInt(10)
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		digits[i] = '0' + byte(v.Int64())
	}

	return string(digits), nil
}
