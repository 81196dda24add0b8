// File: internal/services/chat/errors.go
package chat

import (
	"errors"
	"fmt"

	chatrepo "github.com/iyunix/go-kanoon/internal/repository/chat"
)

type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeAI         ErrorType = "AI"
	ErrTypeStorage    ErrorType = "STORAGE"
)

var (
	ErrSessionNotFound = chatrepo.ErrSessionNotFound
	// ErrAIUnavailable means the model call failed. SendMessage still returns
	// the stored exchange alongside it.
	ErrAIUnavailable = errors.New("AI service temporarily unavailable")
)

// ApologyMessage is stored as the assistant reply when the model fails.
const ApologyMessage = "I apologize, but I'm having trouble processing your request right now. Please try again later."

type ChatError struct {
	Type      ErrorType
	Operation string
	Message   string
	SessionID uint
	UserID    uint
	Cause     error
}

func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Chat %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Chat %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Cause
}

// Is lets callers match on the package sentinels without caring about the cause.
func (e *ChatError) Is(target error) bool {
	switch target {
	case ErrSessionNotFound:
		return e.Type == ErrTypeNotFound
	case ErrAIUnavailable:
		return e.Type == ErrTypeAI
	}
	return false
}

func NewValidationError(operation, msg string) *ChatError {
	return &ChatError{Type: ErrTypeValidation, Operation: operation, Message: msg}
}

func NewNotFoundError(userID, sessionID uint) *ChatError {
	return &ChatError{
		Type:      ErrTypeNotFound,
		Operation: "authorization",
		Message:   "chat session not found",
		UserID:    userID,
		SessionID: sessionID,
	}
}

func NewAIError(operation string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeAI, Operation: operation, Message: ErrAIUnavailable.Error(), Cause: cause}
}

func NewStorageError(operation, msg string, cause error) *ChatError {
	return &ChatError{Type: ErrTypeStorage, Operation: operation, Message: msg, Cause: cause}
}

// IsValidationError reports whether err is a ChatError of type VALIDATION.
func IsValidationError(err error) bool {
	var ce *ChatError
	return errors.As(err, &ce) && ce.Type == ErrTypeValidation
}
