package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/Rrens/finance-copilot/internal/config"
	"github.com/Rrens/finance-copilot/internal/llm"
	openai "github.com/sashabaranov/go-openai"
)

// Provider implements llm.Provider for OpenAI-compatible chat completion APIs.
// Groq, OpenAI and DeepSeek are all served by this type with different base URLs.
type Provider struct {
	name         string
	apiKey       string
	defaultModel string
	models       []string
	client       *openai.Client
}

// NewGroq creates a provider for the Groq API
func NewGroq(cfg config.OpenAIConfig) llm.Provider {
	return newProvider("groq", cfg, "llama-3.3-70b-versatile", []string{
		"llama-3.3-70b-versatile",
		"llama-3.1-8b-instant",
		"mixtral-8x7b-32768",
		"gemma2-9b-it",
	})
}

// NewOpenAI creates a provider for the OpenAI API
func NewOpenAI(cfg config.OpenAIConfig) llm.Provider {
	return newProvider("openai", cfg, "gpt-4o-mini", []string{
		"gpt-4o",
		"gpt-4o-mini",
		"gpt-4-turbo",
		"gpt-3.5-turbo",
	})
}

// NewDeepSeek creates a provider for the DeepSeek API
func NewDeepSeek(cfg config.OpenAIConfig) llm.Provider {
	return newProvider("deepseek", cfg, "deepseek-chat", []string{
		"deepseek-chat",
		"deepseek-reasoner",
	})
}

func newProvider(name string, cfg config.OpenAIConfig, fallbackModel string, models []string) *Provider {
	model := cfg.Model
	if model == "" {
		model = fallbackModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	return &Provider{
		name:         name,
		apiKey:       cfg.APIKey,
		defaultModel: model,
		models:       models,
		client:       openai.NewClientWithConfig(clientCfg),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.name
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return p.models
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// Complete runs a chat completion
func (p *Provider) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature(req.Temperature),
	}
	if req.JSONMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		if isTooManyRequests(err) {
			return nil, fmt.Errorf("%s: %w: %v", p.name, llm.ErrRateLimited, err)
		}
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%s: %w", p.name, llm.ErrEmptyCompletion)
	}

	return &llm.Response{
		Content:    resp.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: resp.Usage.TotalTokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}

// temperature maps 0 to the smallest positive float32; the client drops a
// zero temperature from the payload and the API then applies its default of 1.
func temperature(t float64) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func isTooManyRequests(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	return false
}
