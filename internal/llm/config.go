package llm

import (
	"fmt"
	"time"

	"github.com/saulo-duarte/learnpath-lambda/internal/config"
)

type Config struct {
	// Provider is one of "gemini", "nim", "anthropic", "mock".
	Provider string

	Gemini    GeminiConfig
	NIM       NIMConfig
	Anthropic AnthropicConfig
	Retry     RetryConfig

	// Timeout bounds a whole Complete call including retries.
	Timeout time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type NIMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

func DefaultConfig() Config {
	return Config{
		Provider:  "gemini",
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		NIM:       NIMConfig{Model: "llama-70b", BaseURL: defaultNIMBaseURL},
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	cfg.Provider = config.GetEnv("LLM_PROVIDER", cfg.Provider)

	cfg.Gemini.APIKey = config.GetEnv("GEMINI_API_KEY", "")
	cfg.Gemini.Model = config.GetEnv("GEMINI_MODEL", cfg.Gemini.Model)

	cfg.NIM.APIKey = config.GetEnv("NIM_API_KEY", "")
	cfg.NIM.Model = config.GetEnv("NIM_MODEL", cfg.NIM.Model)
	cfg.NIM.BaseURL = config.GetEnv("NIM_BASE_URL", cfg.NIM.BaseURL)

	cfg.Anthropic.APIKey = config.GetEnv("ANTHROPIC_API_KEY", "")
	cfg.Anthropic.Model = config.GetEnv("ANTHROPIC_MODEL", cfg.Anthropic.Model)

	cfg.Retry.MaxAttempts = config.GetEnvInt("LLM_MAX_ATTEMPTS", cfg.Retry.MaxAttempts)
	cfg.Timeout = config.GetEnvDuration("LLM_TIMEOUT", cfg.Timeout)

	return cfg
}

func (c Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini provider")
		}
	case "nim":
		if c.NIM.APIKey == "" {
			return fmt.Errorf("NIM_API_KEY is required for the nim provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// resolveModel maps a friendly name to a provider model id; unknown names pass through.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
