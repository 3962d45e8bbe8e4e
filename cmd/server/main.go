package main

import (
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"paletteai/internal/app"
	"paletteai/internal/config"
	"paletteai/internal/server"
	"paletteai/internal/store"
	"paletteai/internal/util"
	"paletteai/pkg/ai"
)

func main() {
	// Optional .env for local development; real deploys set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	generationTimeout, err := config.ParseGenerationTimeout(cfg.GenerationTimeout)
	if err != nil {
		log.Fatalf("failed to parse generation timeout: %v", err)
	}
	generator, err := buildGenerator(cfg)
	if err != nil {
		log.Fatalf("failed to init text generator: %v", err)
	}

	var dataStore store.Store
	if cfg.UseMemoryStore {
		slog.Warn("using in-memory store; palettes will not survive restarts")
		dataStore = store.NewMemoryStore()
	}

	appCore, err := app.New(app.Config{
		DatabaseURL:       cfg.DatabaseURL,
		Store:             dataStore,
		Generator:         generator,
		DailyLimit:        cfg.DailyGenerationLimit,
		MaxOutputTokens:   cfg.MaxOutputTokens,
		GenerationTimeout: generationTimeout,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	httpServer, err := server.New(server.Config{
		App:                        appCore,
		RedisAddr:                  cfg.RedisAddr,
		RedisPassword:              cfg.RedisPassword,
		GenerateRateLimitPerMinute: cfg.GenerateRateLimitPerMinute,
		TrustedProxyCIDRs:          cfg.TrustedProxyCIDRs,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("palette server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func buildGenerator(cfg config.FileConfig) (ai.TextGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.GenerationProvider)) {
	case "", "none":
		// Random-only generation; keyword requests will be rejected.
		return nil, nil
	case "openai":
		return ai.NewOpenAICompatGenerator(cfg.GenerationBaseURL, cfg.GenerationAPIKey, cfg.GenerationModel), nil
	case "gemini":
		gen, err := ai.NewGeminiGenerator(cfg.GenerationAPIKey, cfg.GenerationModel)
		if err != nil {
			return nil, err
		}
		return gen, nil
	case "ollama":
		return ai.NewOllamaGenerator(cfg.GenerationBaseURL, cfg.GenerationModel), nil
	default:
		// Unreachable: config.Load validates the provider.
		return nil, nil
	}
}
