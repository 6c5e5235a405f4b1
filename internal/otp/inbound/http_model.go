package inbound

import (
	"net/http"
	"time"
)

type GenerateRequest struct {
	UserID      int64  `json:"user_id,string"`
	OperationID string `json:"operation_id"`
	Channel     string `json:"channel"`
}

type GenerateResponse struct {
	CodeID    int64 `json:"code_id,string"`
	ExpiresAt int64 `json:"expires_at"`
}

func (GenerateResponse) StatusCode() int {
	return http.StatusAccepted
}

func (GenerateResponse) Message() string {
	return "Code accepted for delivery"
}

type ValidateRequest struct {
	Code string `json:"code"`
}

type ValidateResponse struct {
	Valid bool `json:"valid"`
}

func (ValidateResponse) Message() string {
	return "Code validated"
}

type CodeListItemResponse struct {
	ID          int64     `json:"id,string"`
	OperationID string    `json:"operation_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type CodeListResponse struct {
	Codes []CodeListItemResponse `json:"codes"`
}

type UpdatePolicyRequest struct {
	Length     int   `json:"length"`
	TTLSeconds int64 `json:"ttl_seconds"`
}

type PolicyResponse struct {
	Length     int   `json:"length"`
	TTLSeconds int64 `json:"ttl_seconds"`
}
