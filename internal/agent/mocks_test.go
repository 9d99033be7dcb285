package agent

import (
	"context"

	"github.com/Rrens/finance-copilot/internal/domain"
	"github.com/Rrens/finance-copilot/internal/llm"
	"github.com/stretchr/testify/mock"
)

// MockCompleter mocks the completion API
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

// MockRecordRepository mocks the RecordRepository interface
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Select(ctx context.Context, q domain.TableQuery) ([]domain.Record, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

// MockClassifier mocks the IntentClassifier interface
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, userID string, history []domain.Message, message string) (domain.Intent, error) {
	args := m.Called(ctx, userID, history, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Intent), args.Error(1)
}

// MockExecutor mocks the ToolExecutor interface
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(ctx context.Context, userID string, in domain.QueryIntent) ([]domain.Record, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

// MockSynthesizer mocks the ResponseSynthesizer interface
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, history []domain.Message, message, extraContext string) (string, error) {
	args := m.Called(ctx, history, message, extraContext)
	return args.String(0), args.Error(1)
}

// MockRecorder mocks the Recorder interface
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) IntentClassified(intent domain.IntentType) { m.Called(intent) }
func (m *MockRecorder) ToolFailed(table string)                   { m.Called(table) }
func (m *MockRecorder) SynthesizerFallback()                      { m.Called() }
