package agent

import (
	"context"
	"fmt"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/Rrens/finance-copilot/internal/llm"
)

// Synthesizer produces the final natural-language answer
type Synthesizer struct {
	llm Completer
	cfg Config
}

// NewSynthesizer creates a new response synthesizer
func NewSynthesizer(completer Completer, cfg Config) *Synthesizer {
	return &Synthesizer{llm: completer, cfg: cfg}
}

// Synthesize answers message given the full history and optional extra context
func (s *Synthesizer) Synthesize(ctx context.Context, history []domain.Message, message, extraContext string) (string, error) {
	system, err := llm.SynthesizerPrompt(s.cfg.Prompts, extraContext)
	if err != nil {
		return "", err
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: system})
	for _, m := range history {
		role := llm.RoleUser
		if m.Role == domain.RoleAI {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	resp, err := s.llm.Complete(ctx, llm.Request{
		Messages:    messages,
		Model:       s.cfg.Model,
		Temperature: s.cfg.SynthesizerTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to synthesize answer: %w", err)
	}
	return resp.Content, nil
}
