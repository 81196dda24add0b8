// File: internal/services/email/sendgrid_provider.go
package email

import (
	"context"
	"net/http"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type SendGridProvider struct {
	config *Config
	client sender
}

func NewSendGridProvider(config *Config) (*SendGridProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, &MailError{Type: ErrTypeConfig, Message: err.Error()}
	}
	return &SendGridProvider{
		config: config,
		client: sendgrid.NewSendClient(config.APIKey),
	}, nil
}

func (p *SendGridProvider) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return &MailError{Type: ErrTypeValidation, Message: "recipient is required"}
	}

	from := mail.NewEmail(p.config.FromName, p.config.FromAddress)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return &MailError{Type: ErrTypeNetwork, Message: "request failed", Cause: err}
	}
	return p.handleResponse(resp)
}

func (p *SendGridProvider) handleResponse(resp *rest.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return &MailError{Type: ErrTypeRateLimit, Code: resp.StatusCode, Message: "rate limit exceeded"}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &MailError{Type: ErrTypeConfig, Code: resp.StatusCode, Message: "sendgrid rejected the API key"}
	case http.StatusBadRequest:
		return &MailError{Type: ErrTypeValidation, Code: resp.StatusCode, Message: resp.Body}
	}
	return &MailError{Type: ErrTypeProvider, Code: resp.StatusCode, Message: resp.Body}
}
