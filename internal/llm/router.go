package llm

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownProvider is returned for a name that was never registered
	ErrUnknownProvider = errors.New("provider not found")

	// ErrProviderNotConfigured is returned for a registered provider without credentials
	ErrProviderNotConfigured = errors.New("provider not configured")
)

// Router holds the registered completion backends keyed by name. The agent
// talks to the preferred backend, or the first configured one when the
// preferred backend is missing.
type Router struct {
	mu        sync.RWMutex
	backends  map[string]Provider
	preferred string
}

// NewRouter creates a router that prefers the named provider
func NewRouter(preferred string) *Router {
	return &Router{
		backends:  make(map[string]Provider),
		preferred: preferred,
	}
}

// RegisterProvider adds or replaces a provider under its own name
func (r *Router) RegisterProvider(p Provider) {
	r.mu.Lock()
	r.backends[p.Name()] = p
	r.mu.Unlock()

	log.Debug().
		Str("provider", p.Name()).
		Bool("configured", p.IsConfigured()).
		Str("model", p.DefaultModel()).
		Msg("Registered LLM provider")
}

// Lookup returns the named provider if it is registered and configured
func (r *Router) Lookup(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(name)
}

func (r *Router) lookup(name string) (Provider, error) {
	p, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	if !p.IsConfigured() {
		return nil, fmt.Errorf("%w: %s", ErrProviderNotConfigured, name)
	}
	return p, nil
}

// Default returns the preferred provider. If it is unavailable the first
// configured provider in name order is used instead.
func (r *Router) Default() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, err := r.lookup(r.preferred)
	if err == nil {
		return p, nil
	}

	names := r.configuredNames()
	if len(names) == 0 {
		return nil, err
	}

	log.Warn().Err(err).Str("fallback", names[0]).Msg("Preferred LLM provider unavailable")
	return r.backends[names[0]], nil
}

// ListProviders returns the configured provider names in order
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.configuredNames()
}

func (r *Router) configuredNames() []string {
	names := make([]string, 0, len(r.backends))
	for name, p := range r.backends {
		if p.IsConfigured() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Preferred returns the name the router was created with
func (r *Router) Preferred() string {
	return r.preferred
}

// ProviderInfo describes one registered provider for the providers endpoint
type ProviderInfo struct {
	Name       string   `json:"name"`
	Models     []string `json:"models"`
	Default    bool     `json:"default"`
	Configured bool     `json:"configured"`
}

// Info lists every registered provider, configured or not, by name
func (r *Router) Info() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ProviderInfo, 0, len(r.backends))
	for name, p := range r.backends {
		out = append(out, ProviderInfo{
			Name:       name,
			Models:     p.AvailableModels(),
			Default:    name == r.preferred,
			Configured: p.IsConfigured(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
