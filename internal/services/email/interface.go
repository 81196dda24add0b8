// File: internal/services/email/interface.go
package email

import "context"

// Message is a single outbound email.
type Message struct {
	To        string
	ToName    string
	Subject   string
	PlainText string
	HTML      string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// Logger defines the logging interface used by the mail service.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
