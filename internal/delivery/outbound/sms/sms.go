// Package sms delivers codes through an HTTP SMS gateway.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
)

type SMS struct {
	client  *http.Client
	baseURL string
	apiKey  string
	ins     instrument.Instrumentation
}

func New(client *http.Client, cfg config.Config, ins instrument.Instrumentation) *SMS {
	return &SMS{
		client:  client,
		baseURL: cfg.GetString("delivery.sms.base_url"),
		apiKey:  cfg.GetString("delivery.sms.api_key"),
		ins:     ins,
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// Send posts the code to the gateway's message endpoint.
func (s *SMS) Send(ctx context.Context, recipient, code string) error {
	ctx, span := s.ins.Tracer("delivery.outbound.sms").Start(ctx, "Send")
	defer span.End()

	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	body, err := json.Marshal(sendRequest{
		To:      recipient,
		Message: fmt.Sprintf("Your one-time passcode is %s", code),
	})
	if err != nil {
		return fail(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("sms gateway responded with status %d", resp.StatusCode))
	}

	return nil
}
