package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/finance-copilot/internal/api"
	"github.com/Rrens/finance-copilot/internal/config"
	"github.com/Rrens/finance-copilot/internal/llm"
	"github.com/Rrens/finance-copilot/internal/llm/anthropic"
	"github.com/Rrens/finance-copilot/internal/llm/gemini"
	"github.com/Rrens/finance-copilot/internal/llm/ollama"
	"github.com/Rrens/finance-copilot/internal/llm/openai"
	"github.com/Rrens/finance-copilot/internal/logging"
	"github.com/Rrens/finance-copilot/internal/observability"
	"github.com/Rrens/finance-copilot/internal/ratelimit"
	"github.com/Rrens/finance-copilot/internal/repository"
	"github.com/Rrens/finance-copilot/internal/repository/redis"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file - try multiple locations
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logCloser, err := logging.Setup(cfg.Logging)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}
	defer logCloser.Close()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("database", cfg.Database.Driver).
		Msg("Starting finance copilot server")

	ctx := context.Background()

	// Initialize database
	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer store.Close()

	// Rate limiting: shared across replicas through Redis, or per process
	var limiter ratelimit.Limiter
	if cfg.Security.RateLimit.Enabled {
		if cfg.Redis.Enabled {
			redisClient, err := redis.NewClient(ctx, cfg.Redis)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to connect to Redis")
			}
			defer redisClient.Close()
			limiter = redis.NewRateLimiter(redisClient, cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
		} else {
			limiter = ratelimit.NewLocalLimiter(cfg.Security.RateLimit.RequestsPerMinute, cfg.Security.RateLimit.Burst)
		}
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	router, err := api.NewRouter(cfg, api.Deps{
		Store:     store,
		Providers: registerProviders(cfg.LLM),
		Limiter:   limiter,
		Metrics:   metrics,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build router")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}

// registerProviders registers every completion provider that has credentials
func registerProviders(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)
	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	for _, name := range cfg.ConfiguredProviders() {
		switch name {
		case "groq":
			router.RegisterProvider(openai.NewGroq(cfg.Groq))
		case "openai":
			router.RegisterProvider(openai.NewOpenAI(cfg.OpenAI))
		case "deepseek":
			router.RegisterProvider(openai.NewDeepSeek(cfg.DeepSeek))
		case "anthropic":
			router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic))
		case "gemini":
			router.RegisterProvider(gemini.NewProvider(cfg.Gemini))
		case "ollama":
			log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
			router.RegisterProvider(ollama.NewProvider(cfg.Ollama))
		}
	}

	log.Info().Strs("providers", router.ListProviders()).Msg("LLM providers ready")
	return router
}
