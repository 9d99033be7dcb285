package llm

import (
	"errors"
	"strings"
)

var (
	// ErrRateLimited is returned when the upstream provider throttles the caller
	ErrRateLimited = errors.New("llm provider rate limit exceeded")

	// ErrEmptyCompletion is returned when the provider answers without content
	ErrEmptyCompletion = errors.New("empty completion from llm provider")
)

// IsRateLimit reports whether err signals upstream throttling.
// Providers that surface throttling only as text are matched on the message.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "too many requests")
}
