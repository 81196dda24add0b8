// File: internal/services/email/service.go
package email

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/avast/retry-go/v4"
)

type Service struct {
	provider Provider
	config   *Config
	logger   Logger
}

func NewService(provider Provider, config *Config, logger Logger) *Service {
	return &Service{provider: provider, config: config, logger: logger}
}

// SendPasswordReset mails a reset code. Transient failures are retried.
func (s *Service) SendPasswordReset(ctx context.Context, to, name, code string) error {
	if name == "" {
		name = "there"
	}
	msg := Message{
		To:      to,
		ToName:  name,
		Subject: "Your Kanoon password reset code",
		PlainText: fmt.Sprintf("Hi %s,\n\nYour password reset code is %s. It expires in 15 minutes.\n\n"+
			"If you did not request a reset you can ignore this email.\n\nKanoon", name, code),
		HTML: fmt.Sprintf("<p>Hi %s,</p><p>Your password reset code is <strong>%s</strong>. It expires in 15 minutes.</p>"+
			"<p>If you did not request a reset you can ignore this email.</p><p>Kanoon</p>",
			html.EscapeString(name), html.EscapeString(code)),
	}
	return s.send(ctx, msg)
}

func (s *Service) send(ctx context.Context, msg Message) error {
	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			return s.provider.Send(ctx, msg)
		},
		retry.Context(ctx),
		retry.Attempts(s.config.MaxRetries),
		retry.Delay(s.config.RetryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var me *MailError
			if errors.As(err, &me) {
				return me.retryable()
			}
			return true
		}),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("email send failed, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		s.logger.Error("email send failed", "to", maskAddress(msg.To), "attempts", attempt, "error", err)
		return err
	}
	s.logger.Info("email sent", "to", maskAddress(msg.To), "subject", msg.Subject)
	return nil
}

func maskAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if len(addr) <= 3 {
		return "****"
	}
	return addr[:3] + "****"
}
