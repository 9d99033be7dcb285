package api

import (
	"fmt"
	"net/http"
	"regexp"
	"slices"

	"github.com/Rrens/finance-copilot/internal/agent"
	"github.com/Rrens/finance-copilot/internal/api/handler"
	customMiddleware "github.com/Rrens/finance-copilot/internal/api/middleware"
	"github.com/Rrens/finance-copilot/internal/config"
	"github.com/Rrens/finance-copilot/internal/llm"
	"github.com/Rrens/finance-copilot/internal/observability"
	"github.com/Rrens/finance-copilot/internal/ratelimit"
	"github.com/Rrens/finance-copilot/internal/repository"
	"github.com/Rrens/finance-copilot/internal/security"
	"github.com/Rrens/finance-copilot/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

var loopbackOrigin = regexp.MustCompile(`^http://(localhost|127\.0\.0\.1):[0-9]+$`)

// Deps are the long-lived collaborators created at start-up
type Deps struct {
	Store     *repository.Store
	Providers *llm.Router
	// Limiter throttles POST /api/chat; nil disables rate limiting
	Limiter ratelimit.Limiter
	// Metrics is nil when metrics are disabled
	Metrics *observability.Metrics
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Deps) (http.Handler, error) {
	provider, err := deps.Providers.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve completion provider: %w", err)
	}
	log.Info().
		Str("provider", provider.Name()).
		Str("model", modelName(cfg.Agent.Model, provider)).
		Msg("Using completion provider")

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	var recorder agent.Recorder
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
		recorder = deps.Metrics
	}

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc:  allowOrigin(cfg.CORS),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Agent pipeline
	agentCfg := agent.NewConfig(cfg.Agent)
	orchestrator := agent.NewOrchestrator(
		agent.NewClassifier(provider, agentCfg),
		agent.NewExecutor(deps.Store.Records, agentCfg.MaxToolRows),
		agent.NewSynthesizer(provider, agentCfg),
		recorder,
		agentCfg,
	)

	// Initialize services and handlers
	chatService := service.NewChatService(deps.Store.Chats, deps.Store.Messages, orchestrator, cfg.Agent.HistoryLimit)
	chatHandler := handler.NewChatHandler(chatService)

	var verifier *security.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		verifier = security.NewTokenVerifier(cfg.Auth.JWTSecret, "")
	}
	authMiddleware := customMiddleware.NewAuthMiddleware(verifier)

	r.Get("/", handler.Root(cfg.Agent.AssistantName))
	if deps.Metrics != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, deps.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Store))
		r.Get("/providers", handler.ListProviders(deps.Providers))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/chats", chatHandler.List)
			r.Get("/chats/{chatId}", chatHandler.Messages)
			r.Delete("/chats/{chatId}", chatHandler.Delete)

			r.Group(func(r chi.Router) {
				if deps.Limiter != nil {
					r.Use(customMiddleware.NewRateLimitMiddleware(deps.Limiter).Limit)
				}
				r.Post("/chat", chatHandler.Send)
			})
		})
	})

	return r, nil
}

// allowOrigin accepts the configured origins plus, optionally, any loopback
// origin with an explicit port
func allowOrigin(cfg config.CORSConfig) func(*http.Request, string) bool {
	return func(_ *http.Request, origin string) bool {
		if slices.Contains(cfg.AllowedOrigins, origin) {
			return true
		}
		return cfg.AllowLoopback && loopbackOrigin.MatchString(origin)
	}
}

func modelName(configured string, p llm.Provider) string {
	if configured != "" {
		return configured
	}
	return p.DefaultModel()
}
