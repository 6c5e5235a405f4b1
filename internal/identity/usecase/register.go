package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type RegisterInput struct {
	Username string `validate:"required,min=3,max=64"`
	Password string `validate:"required,min=8,max=72"`
	Role     string `validate:"required"`
}

type RegisterOutput struct {
	ID       int64
	Username string
	Role     string
}

// Register creates a new account. Only one administrator may exist; further
// admin registrations are rejected while regular users are unlimited.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	rl := role.FromString(in.Role)
	if !rl.Known() {
		return nil, goerror.NewInvalidInput(errors.New("unrecognized role"), "role", "must be USER or ADMIN")
	}

	if rl == role.Admin {
		count, err := s.repoDB.CountUsersByRole(ctx, role.Admin)
		if err != nil {
			slog.ErrorContext(ctx, "failed to count admin users", "error", err)
			return nil, goerror.NewServer(err)
		}
		if count > 0 {
			return nil, goerror.NewBusiness("administrator already registered", goerror.CodeConflict)
		}
	}

	pwdHash, err := s.bcrypt.Hash(in.Password)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", "error", err)
		return nil, goerror.NewServer(err)
	}

	user := entity.User{
		ID:        s.uid.Generate(),
		Username:  strings.TrimSpace(in.Username),
		Password:  string(pwdHash),
		Role:      rl,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repoDB.CreateUser(ctx, user); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("username already taken", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to create user", "username", user.Username, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role.String(),
	}, nil
}
