package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type chatDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Title     string    `bson:"title"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d chatDocument) toDomain() (domain.Chat, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Chat{}, fmt.Errorf("invalid chat id %q: %w", d.ID, err)
	}
	return domain.Chat{
		ID:        id,
		UserID:    d.UserID,
		Title:     d.Title,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

// ChatRepository implements domain.ChatRepository
type ChatRepository struct {
	coll     *mongo.Collection
	messages *mongo.Collection
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *DB) *ChatRepository {
	return &ChatRepository{
		coll:     db.db.Collection(chatsCollection),
		messages: db.db.Collection(messagesCollection),
	}
}

func (r *ChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	_, err := r.coll.InsertOne(ctx, chatDocument{
		ID:        chat.ID.String(),
		UserID:    chat.UserID,
		Title:     chat.Title,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	return nil
}

func (r *ChatRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Chat, error) {
	var doc chatDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat: %w", err)
	}

	c, err := doc.toDomain()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepository) ListByUser(ctx context.Context, userID string) ([]domain.Chat, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	defer cursor.Close(ctx)

	chats := []domain.Chat{}
	for cursor.Next(ctx) {
		var doc chatDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode chat: %w", err)
		}
		c, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to list chats: %w", err)
	}
	return chats, nil
}

func (r *ChatRepository) Touch(ctx context.Context, id uuid.UUID, userID string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id.String(), "user_id": userID},
		bson.M{"$set": bson.M{"updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to update chat: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the chat and, when it was owned by userID, its messages
func (r *ChatRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String(), "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete chat: %w", err)
	}
	if res.DeletedCount == 0 {
		return nil
	}

	if _, err := r.messages.DeleteMany(ctx, bson.M{"chat_id": id.String()}); err != nil {
		return fmt.Errorf("failed to delete chat messages: %w", err)
	}
	return nil
}
