package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/google/uuid"
)

// ChatRepository implements domain.ChatRepository
type ChatRepository struct {
	*DB
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	query := `INSERT INTO chats (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		chat.ID.String(),
		chat.UserID,
		chat.Title,
		toUnix(chat.CreatedAt),
		toUnix(chat.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

func (r *ChatRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	query := `SELECT id, user_id, title, created_at, updated_at FROM chats WHERE id = ?`
	c, err := scanChat(r.db.QueryRowContext(ctx, query, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}
	return c, nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]domain.Chat, error) {
	query := `
		SELECT id, user_id, title, created_at, updated_at
		FROM chats
		WHERE user_id = ?
		ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer rows.Close()

	chats := []domain.Chat{}
	for rows.Next() {
		c, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		chats = append(chats, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}

func (r *ChatRepository) Touch(ctx context.Context, id uuid.UUID, userID string, at time.Time) error {
	query := `UPDATE chats SET updated_at = ? WHERE id = ? AND user_id = ?`
	res, err := r.db.ExecContext(ctx, query, toUnix(at), id.String(), userID)
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ChatRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	query := `DELETE FROM chats WHERE id = ? AND user_id = ?`
	if _, err := r.db.ExecContext(ctx, query, id.String(), userID); err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChat(row rowScanner) (*domain.Chat, error) {
	var c domain.Chat
	var id string
	var createdAt, updatedAt int64

	if err := row.Scan(&id, &c.UserID, &c.Title, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid chat id %q: %w", id, err)
	}
	c.ID = parsed
	c.CreatedAt = fromUnix(createdAt)
	c.UpdatedAt = fromUnix(updatedAt)
	return &c, nil
}
