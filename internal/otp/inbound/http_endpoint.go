package inbound

import (
	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the code lifecycle and policy.
type HTTPEndpoint struct {
	uc uc
}

// Generate issues a code for a user and queues delivery on the requested
// channel. The code is accepted for delivery, not delivered, when this
// returns.
func (h *HTTPEndpoint) Generate(r *router.Request) (any, error) {
	var req GenerateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Send(r.Context(), usecase.SendInput{
		UserID:      req.UserID,
		OperationID: req.OperationID,
		Channel:     req.Channel,
	})
	if err != nil {
		return nil, err
	}

	return GenerateResponse{
		CodeID:    resp.CodeID,
		ExpiresAt: resp.ExpiresAt.Unix(),
	}, nil
}

// Validate consumes a code. A code that does not validate is a classified
// failure, not a server error.
func (h *HTTPEndpoint) Validate(r *router.Request) (any, error) {
	var req ValidateRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Validate(r.Context(), usecase.ValidateInput{Code: req.Code})
	if err != nil {
		return nil, err
	}

	if !resp.Valid {
		return nil, goerror.NewBusiness("invalid or expired code", goerror.CodeInvalidInput)
	}

	return ValidateResponse{Valid: true}, nil
}

// CodeList returns the caller's codes without their values.
func (h *HTTPEndpoint) CodeList(r *router.Request) (any, error) {
	resp, err := h.uc.CodeList(r.Context())
	if err != nil {
		return nil, err
	}

	return CodeListResponse{
		Codes: lo.Map(resp.Codes, func(c usecase.CodeListItem, _ int) CodeListItemResponse {
			return CodeListItemResponse{
				ID:          c.ID,
				OperationID: c.OperationID,
				Status:      c.Status,
				CreatedAt:   c.CreatedAt,
			}
		}),
	}, nil
}

// GetPolicy returns the current code policy.
func (h *HTTPEndpoint) GetPolicy(r *router.Request) (any, error) {
	resp, err := h.uc.GetPolicy(r.Context())
	if err != nil {
		return nil, err
	}

	return PolicyResponse{
		Length:     resp.Length,
		TTLSeconds: resp.TTLSeconds,
	}, nil
}

// UpdatePolicy replaces the code policy.
func (h *HTTPEndpoint) UpdatePolicy(r *router.Request) (any, error) {
	var req UpdatePolicyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.UpdatePolicy(r.Context(), usecase.UpdatePolicyInput{
		Length:     req.Length,
		TTLSeconds: req.TTLSeconds,
	})
	if err != nil {
		return nil, err
	}

	return PolicyResponse{
		Length:     resp.Length,
		TTLSeconds: resp.TTLSeconds,
	}, nil
}
