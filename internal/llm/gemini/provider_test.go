package gemini

import (
	"context"
	"testing"

	"github.com/Rrens/finance-copilot/internal/config"
	"github.com/Rrens/finance-copilot/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider(config.GeminiConfig{})
	assert.Equal(t, "gemini", p.Name())
	assert.Equal(t, "gemini-2.5-flash", p.DefaultModel())
	assert.False(t, p.IsConfigured())

	_, err := p.Complete(context.Background(), llm.Request{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	})
	assert.Error(t, err)

	p = NewProvider(config.GeminiConfig{APIKey: "key", Model: "gemini-1.5-pro"})
	assert.Equal(t, "gemini-1.5-pro", p.DefaultModel())
	assert.True(t, p.IsConfigured())
}

func TestToHistory(t *testing.T) {
	history := toHistory([]llm.Message{
		{Role: llm.RoleUser, Content: "hi"},
		{Role: llm.RoleAssistant, Content: "hello"},
	})

	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "model", history[1].Role)
	assert.Equal(t, []genai.Part{genai.Text("hello")}, history[1].Parts)
}
