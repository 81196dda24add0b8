package message

import (
	"context"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// MessageRepository handles chat message data operations.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error)
	ListBySession(ctx context.Context, sessionID uint) ([]domain.ChatMessage, error)
	RecentBySession(ctx context.Context, sessionID uint, limit int) ([]domain.ChatMessage, error)
}
