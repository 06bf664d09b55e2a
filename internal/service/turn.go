package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coolkid-chat/backend/internal/llm"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/logger"
	"coolkid-chat/backend/pkg/observability"
	"coolkid-chat/backend/pkg/resilience"
)

// TurnCharacter is the persona the model impersonates for one turn.
type TurnCharacter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Greeting    string `json:"greeting"`
	Gender      string `json:"gender,omitempty"`
}

// HistoryEntry is one prior turn in the conversation.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnRequest is the input contract of the turn service.
type TurnRequest struct {
	Message   string         `json:"message"`
	Character *TurnCharacter `json:"character"`
	History   []HistoryEntry `json:"history"`
}

// TurnService produces one assistant reply per call. It holds no session
// state; concurrent calls are independent.
type TurnService struct {
	provider llm.Provider
	opts     llm.Options
	timeout  time.Duration
	breaker  *resilience.CircuitBreaker
	metrics  *observability.Metrics
	log      *logger.Logger
}

// TurnServiceConfig configures a TurnService.
type TurnServiceConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultTurnServiceConfig matches the reference deployment.
func DefaultTurnServiceConfig() TurnServiceConfig {
	return TurnServiceConfig{
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.7,
		MaxTokens:   500,
		Timeout:     30 * time.Second,
	}
}

// NewTurnService creates a turn service over the given provider.
func NewTurnService(provider llm.Provider, cfg TurnServiceConfig, metrics *observability.Metrics, log *logger.Logger) *TurnService {
	def := DefaultTurnServiceConfig()
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = def.Temperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = def.MaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}

	return &TurnService{
		provider: provider,
		opts: llm.Options{
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
		timeout: cfg.Timeout,
		breaker: resilience.New(resilience.DefaultConfig("llm-provider"), log),
		metrics: metrics,
		log:     log,
	}
}

// Validate checks the input contract. A missing message or character is an
// InvalidRequest; nothing else is.
func (r *TurnRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" || r.Character == nil {
		return apperrors.NewInvalidRequest("Invalid request format")
	}
	return nil
}

// Generate runs one turn: validate, build the prompt, call the provider
// once and map failures onto the error taxonomy. The reply is returned
// unmodified.
func (s *TurnService) Generate(ctx context.Context, req *TurnRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	messages := BuildMessages(req)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	var reply string
	var authErr error
	err := s.breaker.Execute(func() error {
		var genErr error
		reply, genErr = s.provider.Generate(ctx, messages, s.opts)
		if llm.IsAuthError(genErr) {
			// A bad key is a configuration problem, not provider
			// instability; it must not open the breaker.
			authErr = genErr
			return nil
		}
		return genErr
	})
	if err == nil {
		err = authErr
	}

	if err != nil {
		s.metrics.RecordTurn(ctx, "error", time.Since(start))
		return "", s.mapProviderError(err)
	}

	s.metrics.RecordTurn(ctx, "ok", time.Since(start))
	return reply, nil
}

// BuildMessages assembles the ordered list sent downstream: one system
// entry, the history re-tagged to user/assistant in original order, and
// the new user message last.
func BuildMessages(req *TurnRequest) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, llm.ChatMessage{
		Role:    "system",
		Content: SystemPrompt(req.Character),
	})

	for _, entry := range req.History {
		role := "assistant"
		if entry.Role == "user" {
			role = "user"
		}
		messages = append(messages, llm.ChatMessage{Role: role, Content: entry.Content})
	}

	messages = append(messages, llm.ChatMessage{Role: "user", Content: req.Message})
	return messages
}

// SystemPrompt derives the persona prompt from a character: description,
// greeting framed as background, and the fixed guideline block.
func SystemPrompt(character *TurnCharacter) string {
	return fmt.Sprintf(`%s

Character Background: %s

IMPORTANT GUIDELINES:
- Keep conversations appropriate and respectful
- Avoid inappropriate, sexual, or harmful content
- If asked about inappropriate topics, politely redirect the conversation
- Stay in character while maintaining appropriate boundaries
- Be engaging and helpful within appropriate limits

You are having a conversation with a user. Respond naturally as %s while following community guidelines.`,
		character.Description, character.Greeting, character.Name)
}

// mapProviderError converts provider failures into the reported taxonomy
// without leaking anything beyond a human-readable string.
func (s *TurnService) mapProviderError(err error) error {
	if llm.IsAuthError(err) {
		return apperrors.NewConfigurationError(
			"Groq API key is missing or invalid. Please check your environment variables.")
	}
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return apperrors.NewUpstreamError(
			"Failed to get response from Groq: provider temporarily unavailable")
	}
	return apperrors.NewUpstreamError(fmt.Sprintf("Failed to get response from Groq: %s", err.Error()))
}
