package providers

import "context"

type Mode string

const (
	ModeLocal Mode = "local"
	ModeCloud Mode = "cloud"
)

type ModelDescriptor struct {
	Provider    string  `json:"provider"`
	Model       string  `json:"model"`
	Mode        Mode    `json:"mode"`
	BaseURL     string  `json:"base_url,omitempty"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// Backend wraps one completion provider. Generate performs a single blocking
// request with no retries of its own; failures come back as fault values so
// callers can tell retryable transport problems from terminal ones.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Describe() ModelDescriptor
	Healthy(ctx context.Context) bool
}
