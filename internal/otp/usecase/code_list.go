package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/shared/role"
)

type CodeListOutput struct {
	Codes []CodeListItem
}

// CodeListItem omits the code value; listings never leak live codes.
type CodeListItem struct {
	ID          int64
	OperationID string
	Status      string
	CreatedAt   time.Time
}

// CodeList returns the caller's own codes, newest first.
func (s *Usecase) CodeList(ctx context.Context) (*CodeListOutput, error) {
	ctx, span := s.startSpan(ctx, "CodeList")
	defer span.End()

	clm, err := role.Authorize(ctx, role.User)
	if err != nil {
		return nil, err
	}

	codes, err := s.repoDB.FindAllByUser(ctx, clm.UserID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list codes", "user_id", clm.UserID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &CodeListOutput{
		Codes: lo.Map(codes, func(c entity.Code, _ int) CodeListItem {
			return CodeListItem{
				ID:          c.ID,
				OperationID: c.OperationID,
				Status:      c.Status.String(),
				CreatedAt:   c.CreatedAt,
			}
		}),
	}, nil
}
