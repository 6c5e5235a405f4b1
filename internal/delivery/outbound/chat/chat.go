// Package chat delivers codes through a chat bot HTTP API.
package chat

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

type Chat struct {
	client   *http.Client
	baseURL  string
	botToken string
	ins      instrument.Instrumentation
}

func New(client *http.Client, cfg config.Config, ins instrument.Instrumentation) *Chat {
	return &Chat{
		client:   client,
		baseURL:  cfg.GetString("delivery.chat.base_url"),
		botToken: cfg.GetString("delivery.chat.bot_token"),
		ins:      ins,
	}
}

type sendRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send posts the code to the bot's sendMessage endpoint. The recipient is
// the chat handle the username resolves to.
func (c *Chat) Send(ctx context.Context, recipient, code string) error {
	ctx, span := c.ins.Tracer("delivery.outbound.chat").Start(ctx, "Send")
	defer span.End()

	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	body, err := json.Marshal(sendRequest{
		ChatID: recipient,
		Text:   fmt.Sprintf("Your one-time passcode is %s", code),
	})
	if err != nil {
		return fail(err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("chat bot api responded with status %d", resp.StatusCode))
	}

	return nil
}
