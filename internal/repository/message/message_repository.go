// File: internal/repository/message/message_repository.go
package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/iyunix/go-kanoon/internal/domain"
)

const maxRecentMessages = 100

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] Database error creating message in session %d: %v", message.SessionID, err)
		return nil, errors.New("database error creating message")
	}
	return message, nil
}

// ListBySession returns the whole conversation, oldest first.
func (r *gormMessageRepository) ListBySession(ctx context.Context, sessionID uint) ([]domain.ChatMessage, error) {
	if sessionID == 0 {
		return nil, errors.New("invalid session ID")
	}

	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error listing messages for session %d: %v", sessionID, err)
		return nil, errors.New("database query failed")
	}
	return messages, nil
}

// RecentBySession returns the last limit messages in chronological order.
func (r *gormMessageRepository) RecentBySession(ctx context.Context, sessionID uint, limit int) ([]domain.ChatMessage, error) {
	if sessionID == 0 {
		return nil, errors.New("invalid session ID")
	}
	if limit <= 0 || limit > maxRecentMessages {
		limit = maxRecentMessages
	}

	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error loading recent messages for session %d: %v", sessionID, err)
		return nil, errors.New("database query failed")
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.ChatMessage) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if message.SessionID == 0 {
		return errors.New("session ID is required")
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	switch message.MessageType {
	case domain.MessageTypeUser, domain.MessageTypeAssistant:
	default:
		return fmt.Errorf("invalid message type %q", message.MessageType)
	}
	return nil
}
