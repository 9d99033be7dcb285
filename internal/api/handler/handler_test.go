package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rrens/finance-copilot/internal/api/middleware"
	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/Rrens/finance-copilot/internal/llm"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) ListChats(ctx context.Context, userID string) ([]domain.Chat, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Chat), args.Error(1)
}

func (m *MockChatService) GetMessages(ctx context.Context, chatID uuid.UUID, userID string) ([]domain.Message, error) {
	args := m.Called(ctx, chatID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

func (m *MockChatService) DeleteChat(ctx context.Context, chatID uuid.UUID, userID string) error {
	args := m.Called(ctx, chatID, userID)
	return args.Error(0)
}

func (m *MockChatService) SendMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatReply), args.Error(1)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func newTestRouter(svc ChatService) http.Handler {
	h := NewChatHandler(svc)
	r := chi.NewRouter()
	r.Get("/api/chats", h.List)
	r.Get("/api/chats/{chatId}", h.Messages)
	r.Delete("/api/chats/{chatId}", h.Delete)
	r.Post("/api/chat", h.Send)
	return r
}

func do(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestChatHandler_List(t *testing.T) {
	svc := new(MockChatService)
	h := newTestRouter(svc)

	t.Run("missing userId", func(t *testing.T) {
		rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/api/chats", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.False(t, env.Success)
		assert.JSONEq(t, `"userId required"`, string(env.Error))
	})

	t.Run("ok", func(t *testing.T) {
		svc.On("ListChats", mock.Anything, "u1").Return(nil, nil).Once()

		rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/api/chats?userId=u1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, env.Success)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("backend failure", func(t *testing.T) {
		svc.On("ListChats", mock.Anything, "u2").Return(nil, errors.New("connection refused")).Once()

		rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/api/chats?userId=u2", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `"connection refused"`, string(env.Error))
	})
}

func TestChatHandler_Messages(t *testing.T) {
	svc := new(MockChatService)
	h := newTestRouter(svc)
	chatID := uuid.New()

	svc.On("GetMessages", mock.Anything, chatID, "otherUser").Return(nil, domain.ErrForbidden)
	rec, env := do(t, h, httptest.NewRequest(http.MethodGet, "/api/chats/"+chatID.String()+"?userId=otherUser", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `"Unauthorized access to this chat"`, string(env.Error))

	rec, _ = do(t, h, httptest.NewRequest(http.MethodGet, "/api/chats/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	msgs := []domain.Message{{ID: uuid.New(), ChatID: chatID, Role: domain.RoleUser, Content: "hi"}}
	svc.On("GetMessages", mock.Anything, chatID, "u1").Return(msgs, nil)
	rec, env = do(t, h, httptest.NewRequest(http.MethodGet, "/api/chats/"+chatID.String()+"?userId=u1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Message
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "hi", got[0].Content)
}

func TestChatHandler_Delete(t *testing.T) {
	svc := new(MockChatService)
	h := newTestRouter(svc)
	chatID := uuid.New()

	rec, _ := do(t, h, httptest.NewRequest(http.MethodDelete, "/api/chats/"+chatID.String(), nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.On("DeleteChat", mock.Anything, chatID, "u1").Return(nil)
	rec, env := do(t, h, httptest.NewRequest(http.MethodDelete, "/api/chats/"+chatID.String()+"?userId=u1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	svc.AssertExpectations(t)
}

func TestChatHandler_Send(t *testing.T) {
	chatID := uuid.New()

	tests := []struct {
		name    string
		body    string
		setup   func(svc *MockChatService)
		status  int
		checkFn func(t *testing.T, env envelope)
	}{
		{
			name:   "empty message",
			body:   `{"message":"","userId":"u1"}`,
			status: http.StatusBadRequest,
			checkFn: func(t *testing.T, env envelope) {
				assert.JSONEq(t, `{"Message":"field is required"}`, string(env.Error))
			},
		},
		{
			name:   "missing userId",
			body:   `{"message":"hi"}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed body",
			body:   `{"message":`,
			status: http.StatusBadRequest,
		},
		{
			name: "add transaction",
			body: `{"message":"earned 20000","userId":"u1"}`,
			setup: func(svc *MockChatService) {
				svc.On("SendMessage", mock.Anything, domain.ChatRequest{Message: "earned 20000", UserID: "u1"}).
					Return(&domain.ChatReply{
						ChatID: chatID,
						Answer: "I'll add that transaction for you: General Income for ₹20000.",
						Action: &domain.Action{Type: domain.ActionAddTransaction, Payload: domain.Transaction{
							Amount:      domain.NewAmount(20000),
							Type:        domain.TransactionIncome,
							Description: "General Income",
						}},
					}, nil)
			},
			status: http.StatusOK,
			checkFn: func(t *testing.T, env envelope) {
				assert.JSONEq(t, fmt.Sprintf(`{
					"chatId": %q,
					"answer": "I'll add that transaction for you: General Income for ₹20000.",
					"action": {"type":"add_transaction_client","payload":{"amount":20000,"type":"income","description":"General Income"}}
				}`, chatID), string(env.Data))
			},
		},
		{
			name: "rate limited",
			body: `{"message":"hi","userId":"u2"}`,
			setup: func(svc *MockChatService) {
				svc.On("SendMessage", mock.Anything, mock.Anything).
					Return(nil, fmt.Errorf("failed to classify message: %w", llm.ErrRateLimited))
			},
			status: http.StatusTooManyRequests,
		},
		{
			name: "foreign chat",
			body: fmt.Sprintf(`{"message":"hi","userId":"u3","chatId":%q}`, chatID),
			setup: func(svc *MockChatService) {
				svc.On("SendMessage", mock.Anything, mock.Anything).Return(nil, domain.ErrForbidden)
			},
			status: http.StatusForbidden,
		},
		{
			name: "malformed intent",
			body: `{"message":"hi","userId":"u4"}`,
			setup: func(svc *MockChatService) {
				svc.On("SendMessage", mock.Anything, mock.Anything).
					Return(nil, errors.New("failed to classify message: malformed intent"))
			},
			status: http.StatusInternalServerError,
			checkFn: func(t *testing.T, env envelope) {
				assert.JSONEq(t, `"failed to classify message: malformed intent"`, string(env.Error))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockChatService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := newTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec, env := do(t, h, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.checkFn != nil {
				tt.checkFn(t, env)
			}
			if tt.setup == nil {
				svc.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestChatHandler_AuthenticatedUserMustMatch(t *testing.T) {
	svc := new(MockChatService)
	h := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi","userId":"u2"}`))
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, "u1"))

	rec, _ := do(t, h, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	svc.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestHealthCheck(t *testing.T) {
	rec, env := do(t, http.HandlerFunc(HealthCheck), httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestReadyCheck(t *testing.T) {
	rec, _ := do(t, ReadyCheck(stubPinger{}), httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, ReadyCheck(stubPinger{err: errors.New("down")}), httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
