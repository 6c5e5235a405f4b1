package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type UserListOutput struct {
	Users []UserListItem
}

type UserListItem struct {
	ID        int64
	Username  string
	Role      string
	CreatedAt time.Time
}

// UserList returns every non-admin account. Requires an administrator caller.
func (s *Usecase) UserList(ctx context.Context) (*UserListOutput, error) {
	ctx, span := s.startSpan(ctx, "UserList")
	defer span.End()

	if _, err := role.Authorize(ctx, role.Admin); err != nil {
		return nil, err
	}

	users, err := s.repoDB.ListUsersExcludingRole(ctx, role.Admin)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list users", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &UserListOutput{
		Users: lo.Map(users, func(u entity.User, _ int) UserListItem {
			return UserListItem{
				ID:        u.ID,
				Username:  u.Username,
				Role:      u.Role.String(),
				CreatedAt: u.CreatedAt,
			}
		}),
	}, nil
}
