package llm

import "context"

// Provider turns a prompt into free-form text.
type Provider interface {
	// Complete sends the request to the model and returns its raw text output.
	// Transport and HTTP failures are returned as the typed errors in errors.go
	// so callers can tell them apart from problems with the text itself.
	Complete(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

type Request struct {
	// System sets the model's role and output constraints.
	System string

	Messages []Message

	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Response struct {
	Text  string
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "other".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// UserPrompt builds a single-turn request.
func UserPrompt(system, user string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: user}},
	}
}
