package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported model providers.
const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type Config struct {
	Port string

	LLMProvider       string
	LLMTimeoutSeconds int
	ModelProfilePath  string

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	OpenRouterAPIKey   string
	OpenRouterBase     string
	OpenRouterModel    string
	OpenRouterAppTitle string
	OpenRouterReferer  string

	HistoryMaxTurns    int
	HistoryMaxSessions int

	UploadDir        string
	MaxUploadBytes   int
	DocumentMaxChars int

	NetCheckAddr      string
	NetCheckTimeoutMs int

	SessionSecret     string
	SessionCookie     string
	SessionTTLMinutes int
}

// Load reads environment variables, optionally from .env files if present.
// With no arguments the default ".env" in the working directory is tried.
func Load(envFiles ...string) Config {
	// Missing files are not an error: plain environment variables still apply.
	_ = godotenv.Load(envFiles...)

	cfg := Config{
		Port: getEnv("PORT", "5000"),

		LLMProvider:       strings.ToLower(getEnv("LLM_PROVIDER", ProviderGemini)),
		LLMTimeoutSeconds: getEnvInt("LLM_TIMEOUT_SECONDS", 120),
		ModelProfilePath:  os.Getenv("MODEL_PROFILE_PATH"),

		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.5-flash"),

		OpenRouterAPIKey:   os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterBase:     getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		OpenRouterModel:    getEnv("OPENROUTER_MODEL", "google/gemini-2.5-flash"),
		OpenRouterAppTitle: getEnv("OPENROUTER_APP_TITLE", "CurriculumGen"),
		OpenRouterReferer:  os.Getenv("OPENROUTER_REFERER"),

		HistoryMaxTurns:    getEnvInt("HISTORY_MAX_TURNS", 100),
		HistoryMaxSessions: getEnvInt("HISTORY_MAX_SESSIONS", 1000),

		UploadDir:        getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes:   getEnvInt("MAX_UPLOAD_BYTES", 15<<20),
		DocumentMaxChars: getEnvInt("DOCUMENT_MAX_CHARS", 0),

		NetCheckAddr:      getEnv("NET_CHECK_ADDR", "8.8.8.8:53"),
		NetCheckTimeoutMs: getEnvInt("NET_CHECK_TIMEOUT_MS", 3000),

		SessionSecret:     getEnv("SESSION_SECRET", "dev-secret-change"),
		SessionCookie:     getEnv("SESSION_COOKIE", "cg_session"),
		SessionTTLMinutes: getEnvInt("SESSION_TTL_MINUTES", 24*60),
	}
	return cfg
}

// APIKey returns the credential of the selected provider.
func (c Config) APIKey() string {
	if c.LLMProvider == ProviderOpenRouter {
		return c.OpenRouterAPIKey
	}
	return c.GeminiAPIKey
}

// Validate reports misconfiguration that must stop the process at startup.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY environment variable not set")
		}
	case ProviderOpenRouter:
		if c.OpenRouterAPIKey == "" {
			return errors.New("OPENROUTER_API_KEY environment variable not set")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q: expected %q or %q", c.LLMProvider, ProviderGemini, ProviderOpenRouter)
	}
	if c.HistoryMaxTurns < 0 || c.HistoryMaxTurns == 1 {
		return errors.New("HISTORY_MAX_TURNS must be 0 (unbounded) or at least 2")
	}
	if c.HistoryMaxSessions < 0 {
		return errors.New("HISTORY_MAX_SESSIONS must not be negative")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
