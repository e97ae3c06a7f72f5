package quiz

import (
	"time"

	"github.com/saulo-duarte/learnpath-lambda/internal/config"
)

const (
	CacheBackendMemory   = "memory"
	CacheBackendPostgres = "postgres"
)

type Config struct {
	CacheBackend      string
	CacheTTL          time.Duration
	SweepInterval     time.Duration
	MaxEntries        int
	Temperature       float64
	MaxTokens         int
	DefaultQuestions  int
	GenerationTimeout time.Duration
	SessionTokens     bool
}

func DefaultConfig() Config {
	return Config{
		CacheBackend:      CacheBackendMemory,
		CacheTTL:          DefaultCacheTTL,
		SweepInterval:     10 * time.Minute,
		Temperature:       0.7,
		MaxTokens:         2048,
		DefaultQuestions:  5,
		GenerationTimeout: 60 * time.Second,
	}
}

func ConfigFromEnv() Config {
	d := DefaultConfig()
	return Config{
		CacheBackend:      config.GetEnv("QUIZ_CACHE_BACKEND", d.CacheBackend),
		CacheTTL:          config.GetEnvDuration("QUIZ_CACHE_TTL", d.CacheTTL),
		SweepInterval:     config.GetEnvDuration("QUIZ_CACHE_SWEEP_INTERVAL", d.SweepInterval),
		MaxEntries:        config.GetEnvInt("QUIZ_CACHE_MAX_ENTRIES", d.MaxEntries),
		Temperature:       config.GetEnvFloat("QUIZ_TEMPERATURE", d.Temperature),
		MaxTokens:         config.GetEnvInt("QUIZ_MAX_TOKENS", d.MaxTokens),
		DefaultQuestions:  config.GetEnvInt("QUIZ_DEFAULT_QUESTIONS", d.DefaultQuestions),
		GenerationTimeout: config.GetEnvDuration("QUIZ_GENERATION_TIMEOUT", d.GenerationTimeout),
		SessionTokens:     config.GetEnvBool("QUIZ_SESSION_TOKENS", d.SessionTokens),
	}
}
