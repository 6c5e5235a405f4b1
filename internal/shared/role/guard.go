package role

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

// Authorize checks the caller is authenticated and holds at least the given
// role. Missing claims and insufficient rank are distinct failures so callers
// get a 401 versus 403 they can act on.
func Authorize(ctx context.Context, min Role) (*jwt.Claims, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewBusiness("Authentication required", goerror.CodeUnauthenticated)
	}

	if !FromString(clm.Role).AtLeast(min) {
		slog.WarnContext(ctx, "caller role below required rank",
			"user_id", clm.UserID, "role", clm.Role, "required", min.String())
		return nil, goerror.NewBusiness("Account not allowed", goerror.CodeForbidden)
	}

	return clm, nil
}
