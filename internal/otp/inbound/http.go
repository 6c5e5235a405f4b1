package inbound

import (
	"context"

	"github.com/shandysiswandi/otpgate/internal/otp/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	Send(ctx context.Context, in usecase.SendInput) (*usecase.SendOutput, error)
	Validate(ctx context.Context, in usecase.ValidateInput) (*usecase.ValidateOutput, error)
	CodeList(ctx context.Context) (*usecase.CodeListOutput, error)

	GetPolicy(ctx context.Context) (*usecase.PolicyOutput, error)
	UpdatePolicy(ctx context.Context, in usecase.UpdatePolicyInput) (*usecase.PolicyOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Code lifecycle (need authenticated)
	r.POST("/api/v1/otp/generate", end.Generate)
	r.POST("/api/v1/otp/validate", end.Validate)
	r.GET("/api/v1/otp/codes", end.CodeList)

	// Policy (need authenticated & admin role)
	r.GET("/api/v1/admin/otp/config", end.GetPolicy)
	r.PATCH("/api/v1/admin/otp/config", end.UpdatePolicy)
}
