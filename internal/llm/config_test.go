package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "nim")
	t.Setenv("NIM_API_KEY", "nv-key")
	t.Setenv("NIM_MODEL", "nemotron")
	t.Setenv("LLM_TIMEOUT", "12s")

	cfg := ConfigFromEnv()
	assert.Equal(t, "nim", cfg.Provider)
	assert.Equal(t, "nv-key", cfg.NIM.APIKey)
	assert.Equal(t, "nemotron", cfg.NIM.Model)
	assert.Equal(t, 12*time.Second, cfg.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "gemini"
	assert.Error(t, cfg.Validate())

	cfg.Provider = "unknown"
	assert.Error(t, cfg.Validate())

	cfg.Provider = "mock"
	assert.NoError(t, cfg.Validate())
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "mock"

	p, err := NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())
}
