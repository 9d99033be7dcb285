package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Rrens/finance-copilot/internal/api/middleware"
	"github.com/Rrens/finance-copilot/internal/api/response"
	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ChatService is the chat use case consumed by the handler
type ChatService interface {
	ListChats(ctx context.Context, userID string) ([]domain.Chat, error)
	GetMessages(ctx context.Context, chatID uuid.UUID, userID string) ([]domain.Message, error)
	DeleteChat(ctx context.Context, chatID uuid.UUID, userID string) error
	SendMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)
}

// ChatHandler handles chat history and conversational endpoints
type ChatHandler struct {
	chatService ChatService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// List handles listing a user's chats
func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		response.BadRequest(w, "userId required")
		return
	}
	if !authorized(r, userID) {
		response.Forbidden(w, "Unauthorized access to this chat")
		return
	}

	chats, err := h.chatService.ListChats(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if chats == nil {
		chats = []domain.Chat{}
	}

	response.OK(w, chats)
}

// Messages handles fetching the messages of a chat
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if authUser, ok := middleware.GetUserID(r.Context()); ok && userID == "" {
		userID = authUser
	}
	if !authorized(r, userID) {
		response.Forbidden(w, "Unauthorized access to this chat")
		return
	}

	messages, err := h.chatService.GetMessages(r.Context(), chatID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	response.OK(w, messages)
}

// Delete handles deleting a chat
func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	chatID, ok := chatIDParam(w, r)
	if !ok {
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		response.BadRequest(w, "userId required")
		return
	}
	if !authorized(r, userID) {
		response.Forbidden(w, "Unauthorized access to this chat")
		return
	}

	if err := h.chatService.DeleteChat(r.Context(), chatID, userID); err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, nil)
}

// Send handles a conversational turn
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var input domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	input.Message = strings.TrimSpace(input.Message)
	input.UserID = strings.TrimSpace(input.UserID)
	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, validationErrors(err))
		return
	}
	if !authorized(r, input.UserID) {
		response.Forbidden(w, "Unauthorized access to this chat")
		return
	}

	reply, err := h.chatService.SendMessage(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, reply)
}

// authorized reports whether the authenticated caller, if any, is userID
func authorized(r *http.Request, userID string) bool {
	authUser, ok := middleware.GetUserID(r.Context())
	if !ok {
		return true
	}
	return authUser == userID
}

func chatIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	chatID, err := uuid.Parse(chi.URLParam(r, "chatId"))
	if err != nil {
		response.BadRequest(w, "invalid chat ID")
		return uuid.Nil, false
	}
	return chatID, true
}
