package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/Rrens/finance-copilot/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		Prompts:                llm.DefaultPromptConfig("Nidar Copilot", "Taxer"),
		ClassifierTemperature:  0,
		SynthesizerTemperature: 0.7,
		ClassifierTurns:        5,
		MaxToolRows:            50,
	}
}

func makeHistory(n int) []domain.Message {
	history := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAI
		}
		history = append(history, domain.Message{Role: role, Content: fmt.Sprintf("msg-%d", i)})
	}
	return history
}

func TestClassifier_Classify(t *testing.T) {
	completer := new(MockCompleter)
	c := NewClassifier(completer, testConfig())
	c.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	var sent llm.Request
	completer.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(llm.Request) }).
		Return(&llm.Response{Content: `{"type":"ADD_TRANSACTION","details":{"amount":20000,"type":"income","description":"General Income"}}`}, nil)

	intent, err := c.Classify(context.Background(), "u1", makeHistory(8), "earned 20000")
	require.NoError(t, err)
	assert.Equal(t, domain.IntentAddTransaction, intent.Type())

	assert.True(t, sent.JSONMode)
	assert.Equal(t, 0.0, sent.Temperature)
	require.Len(t, sent.Messages, 2)
	assert.Equal(t, llm.RoleSystem, sent.Messages[0].Role)
	assert.Contains(t, sent.Messages[0].Content, "User ID: u1")
	assert.Contains(t, sent.Messages[0].Content, "Current Time: 2026-01-02T03:04:05Z")

	// Only the last five turns are shown
	user := sent.Messages[1].Content
	assert.NotContains(t, user, "msg-2")
	assert.Contains(t, user, "ai: msg-3")
	assert.Contains(t, user, "ai: msg-7")
	assert.Equal(t, 5, strings.Count(user, ": msg-"))
	assert.True(t, strings.HasSuffix(user, `Current Message: "earned 20000"`))
}

func TestClassifier_MalformedOutputIsHardError(t *testing.T) {
	completer := new(MockCompleter)
	c := NewClassifier(completer, testConfig())

	completer.On("Complete", mock.Anything, mock.Anything).
		Return(&llm.Response{Content: "I have added the transaction."}, nil)

	_, err := c.Classify(context.Background(), "u1", nil, "earned 20000")
	assert.ErrorIs(t, err, ErrMalformedIntent)
	completer.AssertNumberOfCalls(t, "Complete", 1)
}

func TestClassifier_RateLimitIsDistinguishable(t *testing.T) {
	completer := new(MockCompleter)
	c := NewClassifier(completer, testConfig())

	completer.On("Complete", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("groq: %w", llm.ErrRateLimited))

	_, err := c.Classify(context.Background(), "u1", nil, "hi")
	assert.True(t, errors.Is(err, llm.ErrRateLimited))
}

func TestSynthesizer_MapsRoles(t *testing.T) {
	completer := new(MockCompleter)
	s := NewSynthesizer(completer, testConfig())

	var sent llm.Request
	completer.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(llm.Request) }).
		Return(&llm.Response{Content: "Your last expense was ₹500."}, nil)

	history := []domain.Message{
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAI, Content: "hello"},
	}
	text, err := s.Synthesize(context.Background(), history, "what did I spend?", "CONTEXT FROM DB:\n[]")
	require.NoError(t, err)
	assert.Equal(t, "Your last expense was ₹500.", text)

	assert.False(t, sent.JSONMode)
	assert.Equal(t, 0.7, sent.Temperature)
	require.Len(t, sent.Messages, 4)
	assert.Contains(t, sent.Messages[0].Content, "CONTEXT FROM DB:\n[]")
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "hi"}, sent.Messages[1])
	assert.Equal(t, llm.Message{Role: llm.RoleAssistant, Content: "hello"}, sent.Messages[2])
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "what did I spend?"}, sent.Messages[3])
}
