// File: internal/services/chat/interface.go
package chat

import (
	"context"

	"github.com/iyunix/go-kanoon/internal/domain"
)

// LegalSearcher finds statutes and judgments to ground a reply.
type LegalSearcher interface {
	Enabled() bool
	TopDocuments(ctx context.Context, query string, n int) ([]domain.LegalReference, error)
}

// SessionProvider handles basic session operations.
type SessionProvider interface {
	ListSessions(ctx context.Context, userID uint) ([]domain.ChatSession, error)
	CreateSession(ctx context.Context, userID uint, title string) (*domain.ChatSession, error)
	GetMessages(ctx context.Context, userID, sessionID uint) (*domain.ChatSession, []domain.ChatMessage, error)
	DeleteSession(ctx context.Context, userID, sessionID uint) error
}

// Assistant answers legal questions.
type Assistant interface {
	SendMessage(ctx context.Context, userID, sessionID uint, text string) (*Exchange, error)
	StreamMessage(ctx context.Context, userID, sessionID uint, text string, onDelta func(string) error) (*Exchange, error)
	QuickQuestion(ctx context.Context, question string) (*QuickAnswer, error)
	AnalyzeQuery(ctx context.Context, query string) (*LegalAnalysis, error)
}

// Provider combines all chat capabilities.
type Provider interface {
	SessionProvider
	Assistant
}
