// File: internal/services/email/log_provider.go
package email

import "context"

// LogProvider stands in for a real mail service in development. It logs who
// would have been mailed, never the body.
type LogProvider struct {
	logger Logger
}

func NewLogProvider(logger Logger) *LogProvider {
	return &LogProvider{logger: logger}
}

func (p *LogProvider) Send(ctx context.Context, msg Message) error {
	p.logger.Info("email not sent, no mail provider configured", "to", maskAddress(msg.To), "subject", msg.Subject)
	return nil
}
