package llm

import "context"

// Role is the author of a chat message sent to a provider
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single chat message in provider format
type Message struct {
	Role    Role
	Content string
}

// Request contains chat completion parameters
type Request struct {
	Messages    []Message
	Model       string // Empty uses the provider default
	Temperature float64
	// JSONMode asks the provider to return a single JSON object
	JSONMode bool
}

// Response contains LLM completion result
type Response struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete runs a chat completion
	Complete(ctx context.Context, req Request) (*Response, error)
}

// SplitSystem separates system messages from the conversation.
// Used by providers whose APIs take the system prompt out of band.
func SplitSystem(msgs []Message) (string, []Message) {
	var system string
	rest := make([]Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += m.Content
			continue
		}
		rest = append(rest, m)
	}
	return system, rest
}
