package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type actionDocument struct {
	Type    string `bson:"type"`
	Payload any    `bson:"payload"`
}

type messageDocument struct {
	ID        string          `bson:"_id"`
	ChatID    string          `bson:"chat_id"`
	Role      string          `bson:"role"`
	Content   string          `bson:"content"`
	Meta      *actionDocument `bson:"meta,omitempty"`
	CreatedAt time.Time       `bson:"created_at"`
}

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	coll *mongo.Collection
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{coll: db.db.Collection(messagesCollection)}
}

func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) error {
	doc := messageDocument{
		ID:        message.ID.String(),
		ChatID:    message.ChatID.String(),
		Role:      string(message.Role),
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	}
	if message.Meta != nil {
		payload, err := toBSONValue(message.Meta.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		doc.Meta = &actionDocument{Type: string(message.Meta.Type), Payload: payload}
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *MessageRepository) ListByChat(ctx context.Context, chatID uuid.UUID) ([]domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, chatID, opts)
}

func (r *MessageRepository) ListRecent(ctx context.Context, chatID uuid.UUID, limit int) ([]domain.Message, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	messages, err := r.find(ctx, chatID, opts)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *MessageRepository) find(ctx context.Context, chatID uuid.UUID, opts *options.FindOptions) ([]domain.Message, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"chat_id": chatID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	messages := []domain.Message{}
	for cursor.Next(ctx) {
		var doc messageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode message: %w", err)
		}

		m := domain.Message{
			Role:      domain.MessageRole(doc.Role),
			Content:   doc.Content,
			CreatedAt: doc.CreatedAt.UTC(),
		}
		if m.ID, err = uuid.Parse(doc.ID); err != nil {
			return nil, fmt.Errorf("invalid message id %q: %w", doc.ID, err)
		}
		if m.ChatID, err = uuid.Parse(doc.ChatID); err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", doc.ChatID, err)
		}
		if doc.Meta != nil {
			m.Meta = &domain.Action{
				Type:    domain.ActionType(doc.Meta.Type),
				Payload: normalizeValue(doc.Meta.Payload),
			}
		}
		messages = append(messages, m)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}
