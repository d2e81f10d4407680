package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	apihttp "github.com/artem13815/curriculumgen/api/http"
	"github.com/artem13815/curriculumgen/api/http/handlers"
	"github.com/artem13815/curriculumgen/pkg/chat"
	"github.com/artem13815/curriculumgen/pkg/config"
	"github.com/artem13815/curriculumgen/pkg/conversation"
	"github.com/artem13815/curriculumgen/pkg/document"
	"github.com/artem13815/curriculumgen/pkg/health"
	"github.com/artem13815/curriculumgen/pkg/health/checkers"
	"github.com/artem13815/curriculumgen/pkg/llm"
	"github.com/artem13815/curriculumgen/pkg/llm/gemini"
	"github.com/artem13815/curriculumgen/pkg/llm/openrouter"
	"github.com/artem13815/curriculumgen/pkg/security/session"
)

const sessionIssuer = "curriculumgen"

// newChatModel builds the gateway adapter of the configured provider.
func newChatModel(cfg config.Config, profile config.ModelProfile) (llm.ChatModel, error) {
	params := llm.GenerationParams{
		Temperature:     profile.Temperature,
		TopP:            profile.TopP,
		TopK:            profile.TopK,
		MaxOutputTokens: profile.MaxOutputTokens,
	}
	timeout := time.Duration(cfg.LLMTimeoutSeconds) * time.Second

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		safety := make([]gemini.SafetySetting, 0, len(profile.SafetySettings))
		for _, s := range profile.SafetySettings {
			safety = append(safety, gemini.SafetySetting{Category: s.Category, Threshold: s.Threshold})
		}
		return gemini.New(gemini.Options{
			APIKey:       cfg.GeminiAPIKey,
			BaseURL:      cfg.GeminiBaseURL,
			Model:        cfg.GeminiModel,
			SystemPrompt: profile.SystemPrompt,
			Params:       params,
			Safety:       safety,
			Timeout:      timeout,
		}), nil
	case config.ProviderOpenRouter:
		return openrouter.New(
			cfg.OpenRouterAPIKey,
			cfg.OpenRouterBase,
			cfg.OpenRouterModel,
			cfg.OpenRouterAppTitle,
			cfg.OpenRouterReferer,
		).WithProfile(profile.SystemPrompt, params).WithTimeout(timeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// newApp wires dependencies and registers every route.
func newApp(cfg config.Config, profile config.ModelProfile) (*fiber.App, error) {
	model, err := newChatModel(cfg, profile)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	store := conversation.NewMemoryStore(cfg.HistoryMaxTurns, conversation.WithMaxSessions(cfg.HistoryMaxSessions))
	prober := checkers.NewNetworkChecker(cfg.NetCheckAddr, time.Duration(cfg.NetCheckTimeoutMs)*time.Millisecond)
	readiness := health.NewService(prober)
	scratch := document.NewScratch(cfg.UploadDir, int64(cfg.MaxUploadBytes))
	chatUC := chat.NewService(store, model, prober, scratch, document.FileExtractor{}, cfg.DocumentMaxChars)

	sessions := session.NewManager(cfg.SessionSecret, sessionIssuer, cfg.SessionCookie,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      "curriculumgen",
		BodyLimit:    cfg.MaxUploadBytes + 1<<20,
		ErrorHandler: apihttp.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())

	apihttp.Register(app,
		handlers.NewChatHandler(chatUC),
		handlers.NewHealthHandler(readiness, time.Duration(cfg.NetCheckTimeoutMs)*time.Millisecond),
		handlers.NewSessionHandler(store),
		sessions.Middleware(),
	)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	return app, nil
}
