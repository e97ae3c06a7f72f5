package llm

import "errors"

const defaultNIMBaseURL = "https://integrate.api.nvidia.com/v1"

var nimModels = map[string]string{
	"llama-70b":  "meta/llama-3.1-70b-instruct",
	"llama-405b": "meta/llama-3.1-405b-instruct",
	"nemotron":   "nvidia/llama-3.1-nemotron-70b-instruct",
}

// NIMProvider targets NVIDIA NIM, which exposes an OpenAI-compatible API.
type NIMProvider struct {
	*OpenAICompatProvider
}

func NewNIMProvider(cfg NIMConfig) (*NIMProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("nvidia NIM API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultNIMBaseURL
	}
	inner := newOpenAICompatProvider(cfg.APIKey, baseURL, resolveModel(cfg.Model, nimModels))
	return &NIMProvider{OpenAICompatProvider: inner}, nil
}
