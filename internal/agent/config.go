package agent

import (
	"context"
	"time"

	"github.com/Rrens/finance-copilot/internal/config"
	"github.com/Rrens/finance-copilot/internal/llm"
)

// Config holds the tunables of a turn
type Config struct {
	Prompts                llm.PromptConfig
	Model                  string
	ClassifierTemperature  float64
	SynthesizerTemperature float64
	ClassifierTurns        int
	MaxToolRows            int
	TurnTimeout            time.Duration
}

// NewConfig builds the agent configuration from application settings
func NewConfig(cfg config.AgentConfig) Config {
	return Config{
		Prompts:                llm.DefaultPromptConfig(cfg.AssistantName, cfg.Platform),
		Model:                  cfg.Model,
		ClassifierTemperature:  cfg.ClassifierTemperature,
		SynthesizerTemperature: cfg.SynthesizerTemperature,
		ClassifierTurns:        cfg.ClassifierTurns,
		MaxToolRows:            cfg.MaxToolRows,
		TurnTimeout:            cfg.TurnTimeout,
	}
}

// Completer is the subset of llm.Provider the agent depends on
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}
