package domain

// IntentType is the tag returned by the intent classifier
type IntentType string

const (
	IntentNavigate       IntentType = "NAVIGATE"
	IntentAddTransaction IntentType = "ADD_TRANSACTION"
	IntentQueryDB        IntentType = "QUERY_DB"
	IntentAnswer         IntentType = "ANSWER"
)

// Intent is the classified purpose of a user message. The set of
// implementations is closed: NavigateIntent, AddTransactionIntent,
// QueryIntent and AnswerIntent.
type Intent interface {
	Type() IntentType
	intent()
}

// NavigateIntent asks the client to switch page
type NavigateIntent struct {
	Route string `json:"route" validate:"required,startswith=/"`
}

// AddTransactionIntent proposes a ledger entry for the client to insert
type AddTransactionIntent struct {
	Transaction Transaction
}

// QueryIntent asks for a read against one of the tool tables
type QueryIntent struct {
	Table string `json:"table" validate:"required"`
	Query string `json:"query,omitempty"`
}

// AnswerIntent means the message can be answered from conversation alone
type AnswerIntent struct{}

func (NavigateIntent) Type() IntentType       { return IntentNavigate }
func (AddTransactionIntent) Type() IntentType { return IntentAddTransaction }
func (QueryIntent) Type() IntentType          { return IntentQueryDB }
func (AnswerIntent) Type() IntentType         { return IntentAnswer }

func (NavigateIntent) intent()       {}
func (AddTransactionIntent) intent() {}
func (QueryIntent) intent()          {}
func (AnswerIntent) intent()         {}
