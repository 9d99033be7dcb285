package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser MessageRole = "user"
	RoleAI   MessageRole = "ai"
)

// Message represents a single immutable turn in a chat
type Message struct {
	ID        uuid.UUID   `json:"id"`
	ChatID    uuid.UUID   `json:"chat_id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Meta      *Action     `json:"meta,omitempty"` // Only set on ai messages
	CreatedAt time.Time   `json:"created_at"`
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// ListByChat returns every message of a chat ordered by created_at ascending
	ListByChat(ctx context.Context, chatID uuid.UUID) ([]Message, error)
	// ListRecent returns the latest limit messages in chronological order
	ListRecent(ctx context.Context, chatID uuid.UUID, limit int) ([]Message, error)
}
