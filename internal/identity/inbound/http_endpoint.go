package inbound

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/identity/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for account and session workflows.
type HTTPEndpoint struct {
	uc uc
}

// Register creates a new account with the requested role.
func (h *HTTPEndpoint) Register(r *router.Request) (any, error) {
	var req RegisterRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Register(r.Context(), usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return nil, err
	}

	return RegisterResponse{
		ID:       resp.ID,
		Username: resp.Username,
		Role:     resp.Role,
	}, nil
}

// Login authenticates a user and returns a session token.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{AccessToken: resp.AccessToken}, nil
}

// Logout revokes the bearer token that authenticated this request.
func (h *HTTPEndpoint) Logout(r *router.Request) (any, error) {
	token := ""
	if parts := strings.Fields(r.Header.Get("Authorization")); len(parts) == 2 {
		token = parts[1]
	}

	if err := h.uc.Logout(r.Context(), usecase.LogoutInput{Token: token}); err != nil {
		return nil, err
	}

	return LogoutResponse{}, nil
}

// UserList returns all non-admin accounts.
func (h *HTTPEndpoint) UserList(r *router.Request) (any, error) {
	resp, err := h.uc.UserList(r.Context())
	if err != nil {
		return nil, err
	}

	return UserListResponse{
		Users: lo.Map(resp.Users, func(u usecase.UserListItem, _ int) UserListItemResponse {
			return UserListItemResponse{
				ID:        u.ID,
				Username:  u.Username,
				Role:      u.Role,
				CreatedAt: u.CreatedAt,
			}
		}),
	}, nil
}

// UserDelete removes a user together with every code issued to it.
func (h *HTTPEndpoint) UserDelete(r *router.Request) (any, error) {
	id, err := r.GetParamInt64("id")
	if err != nil {
		return nil, err
	}

	if err := h.uc.UserDelete(r.Context(), usecase.UserDeleteInput{ID: id}); err != nil {
		return nil, err
	}

	return UserDeleteResponse{}, nil
}
