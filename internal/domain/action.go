package domain

// ActionType identifies a client-side effect attached to an AI response
type ActionType string

const (
	ActionNavigate       ActionType = "navigate"
	ActionAddTransaction ActionType = "add_transaction_client"
)

// Action instructs the caller to perform a client-side effect
type Action struct {
	Type    ActionType `json:"type"`
	Payload any        `json:"payload"`
}

// AgentResponse is the result of one orchestrated turn
type AgentResponse struct {
	Text   string
	Action *Action
}
