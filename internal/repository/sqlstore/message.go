package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/google/uuid"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	*DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	var meta sql.NullString
	if message.Meta != nil {
		data, err := json.Marshal(message.Meta)
		if err != nil {
			return fmt.Errorf("failed to marshal meta: %w", err)
		}
		meta = sql.NullString{String: string(data), Valid: true}
	}

	query := `INSERT INTO messages (id, chat_id, role, content, meta, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		message.ID.String(),
		message.ChatID.String(),
		string(message.Role),
		message.Content,
		meta,
		toUnix(message.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT id, chat_id, role, content, meta, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, chatID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return scanMessages(rows)
}

func (r *MessageRepository) ListRecent(ctx context.Context, chatID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, chat_id, role, content, meta, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, chatID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var m domain.Message
		var id, chatID, role string
		var meta sql.NullString
		var createdAt int64

		if err := rows.Scan(&id, &chatID, &role, &m.Content, &meta, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}

		var err error
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid message id %q: %w", id, err)
		}
		if m.ChatID, err = uuid.Parse(chatID); err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", chatID, err)
		}
		m.Role = domain.MessageRole(role)
		m.CreatedAt = fromUnix(createdAt)

		if meta.Valid && meta.String != "" {
			m.Meta = &domain.Action{}
			if err := json.Unmarshal([]byte(meta.String), m.Meta); err != nil {
				return nil, fmt.Errorf("failed to decode message meta: %w", err)
			}
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
