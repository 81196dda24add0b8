// File: internal/services/kanoon/errors.go
package kanoon

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig  ErrorType = "CONFIG"
	ErrTypeNetwork ErrorType = "NETWORK"
	ErrTypeHTTP    ErrorType = "HTTP"
	ErrTypeDecode  ErrorType = "DECODE"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("legal search is not configured")

type SearchError struct {
	Type       ErrorType
	StatusCode int
	Message    string
	Cause      error
}

func (e *SearchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("legal search %s error: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("legal search %s error: %s (status %d)", e.Type, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("legal search %s error: %s", e.Type, e.Message)
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}
