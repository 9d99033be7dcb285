package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// TurnRunner runs one agent turn
type TurnRunner interface {
	Run(ctx context.Context, userID string, history []domain.Message, message string) (*domain.AgentResponse, error)
}

// ChatService handles chat history and conversational turns
type ChatService struct {
	chats        domain.ChatRepository
	messages     domain.MessageRepository
	agent        TurnRunner
	historyLimit int
	now          func() time.Time
}

// NewChatService creates a new chat service
func NewChatService(
	chats domain.ChatRepository,
	messages domain.MessageRepository,
	agent TurnRunner,
	historyLimit int,
) *ChatService {
	return &ChatService{
		chats:        chats,
		messages:     messages,
		agent:        agent,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// ListChats returns the user's chats, most recently updated first
func (s *ChatService) ListChats(ctx context.Context, userID string) ([]domain.Chat, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	return s.chats.ListByUser(ctx, userID)
}

// GetMessages returns a chat's messages oldest first. When userID is given
// the chat must exist and belong to that user.
func (s *ChatService) GetMessages(ctx context.Context, chatID uuid.UUID, userID string) ([]domain.Message, error) {
	if userID != "" {
		chat, err := s.chats.Get(ctx, chatID)
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrForbidden
		}
		if err != nil {
			return nil, err
		}
		if chat.UserID != userID {
			return nil, domain.ErrForbidden
		}
	}
	return s.messages.ListByChat(ctx, chatID)
}

// DeleteChat removes a chat only if it belongs to userID
func (s *ChatService) DeleteChat(ctx context.Context, chatID uuid.UUID, userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: userId is required", domain.ErrValidation)
	}
	return s.chats.Delete(ctx, chatID, userID)
}

// SendMessage runs a conversational turn: it stores the user message, runs
// the agent and stores the reply
func (s *ChatService) SendMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	req.Message = strings.TrimSpace(req.Message)
	req.UserID = strings.TrimSpace(req.UserID)
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.now().UTC()
	chatID, created, err := s.resolveChat(ctx, req, now)
	if err != nil {
		return nil, err
	}

	// History is read before the new message is stored so it holds prior turns only
	var history []domain.Message
	if !created {
		history, err = s.messages.ListRecent(ctx, chatID, s.historyLimit)
		if err != nil {
			return nil, err
		}
	}

	userMsg := &domain.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		Role:      domain.RoleUser,
		Content:   req.Message,
		CreatedAt: now,
	}
	if err := s.messages.Create(ctx, userMsg); err != nil {
		if created {
			s.discardChat(chatID, req.UserID)
		}
		return nil, err
	}

	resp, err := s.agent.Run(ctx, req.UserID, history, req.Message)
	if err != nil {
		return nil, err
	}

	aiAt := s.now().UTC()
	if aiAt.Sub(now) < time.Millisecond {
		aiAt = now.Add(time.Millisecond)
	}
	aiMsg := &domain.Message{
		ID:        uuid.New(),
		ChatID:    chatID,
		Role:      domain.RoleAI,
		Content:   resp.Text,
		Meta:      resp.Action,
		CreatedAt: aiAt,
	}
	if err := s.messages.Create(ctx, aiMsg); err != nil {
		return nil, err
	}

	return &domain.ChatReply{
		ChatID: chatID,
		Answer: resp.Text,
		Action: resp.Action,
	}, nil
}

// resolveChat creates a chat for a new session or bumps an existing one
// owned by the caller
func (s *ChatService) resolveChat(ctx context.Context, req domain.ChatRequest, now time.Time) (uuid.UUID, bool, error) {
	if req.ChatID == "" {
		chat := &domain.Chat{
			ID:        uuid.New(),
			UserID:    req.UserID,
			Title:     domain.ChatTitle(req.Message),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.chats.Create(ctx, chat); err != nil {
			return uuid.Nil, false, err
		}
		return chat.ID, true, nil
	}

	chatID, err := uuid.Parse(req.ChatID)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("%w: invalid chatId", domain.ErrValidation)
	}

	if err := s.chats.Touch(ctx, chatID, req.UserID, now); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, false, domain.ErrForbidden
		}
		return uuid.Nil, false, err
	}
	return chatID, false, nil
}

// discardChat removes a chat created in a turn whose first message could not be stored
func (s *ChatService) discardChat(chatID uuid.UUID, userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.chats.Delete(ctx, chatID, userID); err != nil {
		log.Error().Err(err).Str("chat_id", chatID.String()).Msg("Failed to discard empty chat")
	}
}
