package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/Rrens/finance-copilot/internal/llm"
	"github.com/rs/zerolog/log"
)

// FallbackAnswer is returned when the synthesizer fails for any reason other
// than upstream rate limiting
const FallbackAnswer = "I'm having trouble connecting to my brain right now. Please try again."

// IntentClassifier classifies a user message
type IntentClassifier interface {
	Classify(ctx context.Context, userID string, history []domain.Message, message string) (domain.Intent, error)
}

// ToolExecutor runs QUERY_DB intents
type ToolExecutor interface {
	Execute(ctx context.Context, userID string, in domain.QueryIntent) ([]domain.Record, error)
}

// ResponseSynthesizer writes the final answer
type ResponseSynthesizer interface {
	Synthesize(ctx context.Context, history []domain.Message, message, extraContext string) (string, error)
}

// Recorder receives turn outcomes for metrics
type Recorder interface {
	IntentClassified(intent domain.IntentType)
	ToolFailed(table string)
	SynthesizerFallback()
}

type nopRecorder struct{}

func (nopRecorder) IntentClassified(domain.IntentType) {}
func (nopRecorder) ToolFailed(string)                  {}
func (nopRecorder) SynthesizerFallback()               {}

// Orchestrator runs one turn: classify, act, synthesize
type Orchestrator struct {
	classifier  IntentClassifier
	executor    ToolExecutor
	synthesizer ResponseSynthesizer
	recorder    Recorder
	cfg         Config
}

// NewOrchestrator wires the three stages. A nil recorder disables metrics.
func NewOrchestrator(
	classifier IntentClassifier,
	executor ToolExecutor,
	synthesizer ResponseSynthesizer,
	recorder Recorder,
	cfg Config,
) *Orchestrator {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Orchestrator{
		classifier:  classifier,
		executor:    executor,
		synthesizer: synthesizer,
		recorder:    recorder,
		cfg:         cfg,
	}
}

// Run processes message for userID. history is the prior conversation in
// chronological order, not including message.
func (o *Orchestrator) Run(ctx context.Context, userID string, history []domain.Message, message string) (*domain.AgentResponse, error) {
	if o.cfg.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.TurnTimeout)
		defer cancel()
	}

	intent, err := o.classifier.Classify(ctx, userID, history, message)
	if err != nil {
		return nil, err
	}
	o.recorder.IntentClassified(intent.Type())

	log.Debug().
		Str("user_id", userID).
		Str("intent", string(intent.Type())).
		Msg("Intent classified")

	var extraContext string

	switch in := intent.(type) {
	case domain.NavigateIntent:
		return &domain.AgentResponse{
			Text:   fmt.Sprintf("Navigating you to %s...", in.Route),
			Action: &domain.Action{Type: domain.ActionNavigate, Payload: in.Route},
		}, nil

	case domain.AddTransactionIntent:
		tx := in.Transaction
		return &domain.AgentResponse{
			Text:   fmt.Sprintf("I'll add that transaction for you: %s for ₹%s.", tx.Description, tx.Amount.String()),
			Action: &domain.Action{Type: domain.ActionAddTransaction, Payload: tx},
		}, nil

	case domain.QueryIntent:
		extraContext = o.queryContext(ctx, userID, in)

	case domain.AnswerIntent:
	}

	text, err := o.synthesizer.Synthesize(ctx, history, message, extraContext)
	if err != nil {
		if llm.IsRateLimit(err) {
			return nil, err
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Synthesizer failed, returning fallback answer")
		o.recorder.SynthesizerFallback()
		return &domain.AgentResponse{Text: FallbackAnswer}, nil
	}

	return &domain.AgentResponse{Text: text}, nil
}

// queryContext runs the tool and renders its result for the synthesizer.
// A failed read is reported as such so the answer never claims there is no data.
func (o *Orchestrator) queryContext(ctx context.Context, userID string, in domain.QueryIntent) string {
	records, err := o.executor.Execute(ctx, userID, in)
	if err == nil {
		var data []byte
		data, err = json.MarshalIndent(records, "", "  ")
		if err == nil {
			return "CONTEXT FROM DB:\n" + string(data)
		}
	}

	log.Error().
		Err(err).
		Str("user_id", userID).
		Str("table", in.Table).
		Msg("Tool query failed")
	o.recorder.ToolFailed(in.Table)

	return fmt.Sprintf(
		"QUERY FAILED: the %q lookup could not be completed. Do not assume there is no data; tell the user this information is temporarily unavailable.",
		in.Table,
	)
}
