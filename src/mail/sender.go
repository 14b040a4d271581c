package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gofiber/fiber/v2"
)

// Sender delivers a rendered message. Errors wrapped with backoff.Permanent
// must not be retried.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type Address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailtrapPayload struct {
	From     Address   `json:"from"`
	To       []Address `json:"to"`
	Subject  string    `json:"subject"`
	HTML     string    `json:"html"`
	Category string    `json:"category,omitempty"`
}

// MailtrapSender posts messages to the Mailtrap send API.
type MailtrapSender struct {
	endpoint string
	token    string
	from     Address
	timeout  time.Duration
}

func NewMailtrapSender(endpoint, token string, from Address) *MailtrapSender {
	return &MailtrapSender{
		endpoint: endpoint,
		token:    token,
		from:     from,
		timeout:  10 * time.Second,
	}
}

func (s *MailtrapSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return backoff.Permanent(err)
	}

	agent := fiber.Post(s.endpoint)
	agent.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	agent.JSON(mailtrapPayload{
		From:     s.from,
		To:       []Address{{Email: msg.To}},
		Subject:  msg.Subject,
		HTML:     msg.HTML,
		Category: msg.Category,
	})
	agent.Timeout(s.timeout)

	if err := agent.Parse(); err != nil {
		return backoff.Permanent(fmt.Errorf("mailtrap request: %w", err))
	}

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("mailtrap send: %w", errors.Join(errs...))
	}

	switch {
	case code >= 200 && code < 300:
		return nil
	case code == fiber.StatusTooManyRequests || code >= 500:
		return fmt.Errorf("mailtrap send: status %d: %s", code, body)
	default:
		return backoff.Permanent(fmt.Errorf("mailtrap send: status %d: %s", code, body))
	}
}
