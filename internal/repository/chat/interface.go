package chat

import (
	"context"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// SessionRepository handles chat session data operations.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.ChatSession) (*domain.ChatSession, error)
	FindByIDAndUser(ctx context.Context, sessionID, userID uint) (*domain.ChatSession, error)
	ListActiveByUser(ctx context.Context, userID uint) ([]domain.ChatSession, error)
	SoftDelete(ctx context.Context, sessionID, userID uint) error
	Touch(ctx context.Context, sessionID uint, addedMessages int) error
}
