package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const chatTitleLength = 30

// Chat represents a conversation thread owned by a single user
type Chat struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatTitle derives a chat title from the first message of a session
func ChatTitle(message string) string {
	runes := []rune(message)
	if len(runes) > chatTitleLength {
		runes = runes[:chatTitleLength]
	}
	return string(runes) + "..."
}

// ChatRepository defines the interface for chat storage
type ChatRepository interface {
	Create(ctx context.Context, chat *Chat) error
	// Get returns ErrNotFound when no chat has the given id
	Get(ctx context.Context, id uuid.UUID) (*Chat, error)
	ListByUser(ctx context.Context, userID string) ([]Chat, error)
	// Touch bumps updated_at; returns ErrNotFound when id and userID do not match a chat
	Touch(ctx context.Context, id uuid.UUID, userID string, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// ChatRequest is the body of a conversational turn
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
	ChatID  string `json:"chatId,omitempty" validate:"omitempty,uuid"`
}

// ChatReply is returned to the caller after a turn completes
type ChatReply struct {
	ChatID uuid.UUID `json:"chatId"`
	Answer string    `json:"answer"`
	Action *Action   `json:"action"`
}
