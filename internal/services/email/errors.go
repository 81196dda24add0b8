// File: internal/services/email/errors.go
package email

import "fmt"

type ErrorType string

const (
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypeNetwork    ErrorType = "NETWORK"
	ErrTypeProvider   ErrorType = "PROVIDER"
	ErrTypeRateLimit  ErrorType = "RATE_LIMIT"
	ErrTypeValidation ErrorType = "VALIDATION"
)

type MailError struct {
	Type    ErrorType
	Code    int
	Message string
	Cause   error
}

func (e *MailError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("mail %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("mail %s error: %s", e.Type, e.Message)
}

func (e *MailError) Unwrap() error {
	return e.Cause
}

// retryable reports whether another attempt could succeed.
func (e *MailError) retryable() bool {
	return e.Type != ErrTypeConfig && e.Type != ErrTypeValidation
}
