// File: internal/domain/chat.go
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ChatSession represents a single conversation thread with the legal assistant.
type ChatSession struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	SessionTitle string    `json:"session_title" gorm:"size:200"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true;index"`
	MessageCount int       `json:"message_count" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type MessageType string

const (
	MessageTypeUser      MessageType = "user"
	MessageTypeAssistant MessageType = "assistant"
)

// LegalReference is a document from the legal search API cited in a reply.
type LegalReference struct {
	Title   string `json:"title"`
	Source  string `json:"source,omitempty"`
	Date    string `json:"date,omitempty"`
	Link    string `json:"link,omitempty"`
	Excerpt string `json:"-"`
}

// MessageMetadata is stored alongside assistant replies.
type MessageMetadata struct {
	Sources    []string         `json:"sources,omitempty"`
	References []LegalReference `json:"references,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// ChatMessage is a single message within a chat session.
type ChatMessage struct {
	ID          uint                                `json:"id" gorm:"primarykey"`
	SessionID   uint                                `json:"session_id" gorm:"not null;index"`
	MessageType MessageType                         `json:"message_type" gorm:"size:20;not null"`
	Content     string                              `json:"content" gorm:"type:text;not null"`
	Metadata    datatypes.JSONType[MessageMetadata] `json:"metadata"`
	CreatedAt   time.Time                           `json:"created_at"`
}
