package usecase

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateUser(ctx context.Context, in entity.User) error
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	CountUsersByRole(ctx context.Context, r role.Role) (int64, error)
	ListUsersExcludingRole(ctx context.Context, excluded role.Role) ([]entity.User, error)
	DeleteUserCascade(ctx context.Context, id int64) error
}

type sessions interface {
	Issue(ctx context.Context, user entity.User) (string, error)
	Revoke(ctx context.Context, token string) error
}

type Usecase struct {
	repoDB    repoDB
	sessions  sessions
	validator validator.Validator
	cfg       config.Config
	bcrypt    hash.Hash
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Sessions   sessions
	Validator  validator.Validator
	Config     config.Config
	Bcrypt     hash.Hash
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		sessions:  dep.Sessions,
		validator: dep.Validator,
		cfg:       dep.Config,
		bcrypt:    dep.Bcrypt,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
}
