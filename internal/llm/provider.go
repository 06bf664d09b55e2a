package llm

import "context"

// ChatMessage is one entry in the ordered list sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options control one generation request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider is a hosted text-generation endpoint. Implementations perform
// exactly one attempt per call; retry policy belongs to the caller.
type Provider interface {
	Generate(ctx context.Context, messages []ChatMessage, opts Options) (string, error)
}

// ProviderError is a failure reported by the provider boundary. Auth
// distinguishes credential problems from other upstream failures.
type ProviderError struct {
	StatusCode int
	Message    string
	Auth       bool
}

func (e *ProviderError) Error() string {
	return e.Message
}

// IsAuthError reports whether err is a credential failure at the
// provider boundary.
func IsAuthError(err error) bool {
	pe, ok := err.(*ProviderError)
	return ok && pe.Auth
}
