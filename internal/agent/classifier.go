package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/Rrens/finance-copilot/internal/llm"
)

// Classifier turns the latest user message into an intent
type Classifier struct {
	llm Completer
	cfg Config
	now func() time.Time
}

// NewClassifier creates a new intent classifier
func NewClassifier(completer Completer, cfg Config) *Classifier {
	return &Classifier{
		llm: completer,
		cfg: cfg,
		now: time.Now,
	}
}

// Classify asks the completion API for a JSON intent. Only the last
// ClassifierTurns messages of history are shown to the model.
func (c *Classifier) Classify(ctx context.Context, userID string, history []domain.Message, message string) (domain.Intent, error) {
	system, err := llm.ClassifierPrompt(c.cfg.Prompts, userID, c.now())
	if err != nil {
		return nil, err
	}

	recent := history
	if n := c.cfg.ClassifierTurns; n > 0 && len(recent) > n {
		recent = recent[len(recent)-n:]
	}
	turns := make([]llm.Turn, 0, len(recent))
	for _, m := range recent {
		turns = append(turns, llm.Turn{Speaker: string(m.Role), Text: m.Content})
	}

	resp, err := c.llm.Complete(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: llm.ClassifierUserMessage(turns, message)},
		},
		Model:       c.cfg.Model,
		Temperature: c.cfg.ClassifierTemperature,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to classify message: %w", err)
	}

	return DecodeIntent(resp.Content)
}
