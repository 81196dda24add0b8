// File: internal/repository/chat/chat_repository.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/iyunix/go-kanoon/internal/domain"
)

var ErrSessionNotFound = errors.New("chat session not found")

const maxTitleLength = 200

type gormSessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &gormSessionRepository{db: db}
}

// Create inserts an active session for its owner.
func (r *gormSessionRepository) Create(ctx context.Context, session *domain.ChatSession) (*domain.ChatSession, error) {
	if err := r.validateSessionInput(session); err != nil {
		log.Printf("[SessionRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	session.IsActive = true

	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		log.Printf("[SessionRepository] Database error during session creation for user ID %d: %v", session.UserID, err)
		return nil, errors.New("database error creating chat session")
	}

	log.Printf("[SessionRepository] Session created with ID: %d for user: %d", session.ID, session.UserID)
	return session, nil
}

// FindByIDAndUser returns the session only when it is active and owned by userID.
func (r *gormSessionRepository) FindByIDAndUser(ctx context.Context, sessionID, userID uint) (*domain.ChatSession, error) {
	if sessionID == 0 || userID == 0 {
		return nil, ErrSessionNotFound
	}

	var session domain.ChatSession
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND is_active = ?", sessionID, userID, true).
		First(&session).Error
	return r.handleFindError(err, &session)
}

func (r *gormSessionRepository) ListActiveByUser(ctx context.Context, userID uint) ([]domain.ChatSession, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var sessions []domain.ChatSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&sessions).Error
	if err != nil {
		log.Printf("[SessionRepository] Database error listing sessions for user %d: %v", userID, err)
		return nil, errors.New("database query failed")
	}
	return sessions, nil
}

// SoftDelete flags the session inactive. Messages are kept.
func (r *gormSessionRepository) SoftDelete(ctx context.Context, sessionID, userID uint) error {
	res := r.db.WithContext(ctx).Model(&domain.ChatSession{}).
		Where("id = ? AND user_id = ? AND is_active = ?", sessionID, userID, true).
		Update("is_active", false)
	if res.Error != nil {
		log.Printf("[SessionRepository] Database error deleting session %d: %v", sessionID, res.Error)
		return errors.New("database error deleting chat session")
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	log.Printf("[SessionRepository] Session %d deactivated by user %d", sessionID, userID)
	return nil
}

// Touch bumps updated_at and adds to the message counter.
func (r *gormSessionRepository) Touch(ctx context.Context, sessionID uint, addedMessages int) error {
	res := r.db.WithContext(ctx).Model(&domain.ChatSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"updated_at":    time.Now(),
			"message_count": gorm.Expr("message_count + ?", addedMessages),
		})
	if res.Error != nil {
		log.Printf("[SessionRepository] Database error touching session %d: %v", sessionID, res.Error)
		return errors.New("database error updating chat session")
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (r *gormSessionRepository) validateSessionInput(session *domain.ChatSession) error {
	if session == nil {
		return errors.New("session cannot be nil")
	}
	if session.UserID == 0 {
		return errors.New("user ID is required")
	}
	session.SessionTitle = strings.TrimSpace(session.SessionTitle)
	if session.SessionTitle == "" {
		return errors.New("session title is required")
	}
	if len(session.SessionTitle) > maxTitleLength {
		return fmt.Errorf("session title must not exceed %d characters", maxTitleLength)
	}
	return nil
}

func (r *gormSessionRepository) handleFindError(err error, session *domain.ChatSession) (*domain.ChatSession, error) {
	if err == nil {
		return session, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	log.Printf("[SessionRepository] Database query error: %v", err)
	return nil, errors.New("database query failed")
}
