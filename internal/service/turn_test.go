package service

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coolkid-chat/backend/internal/llm"
	apperrors "coolkid-chat/backend/pkg/errors"
	"coolkid-chat/backend/pkg/logger"
)

type fakeProvider struct {
	reply    string
	err      error
	messages []llm.ChatMessage
	opts     llm.Options
	calls    int
}

func (f *fakeProvider) Generate(ctx context.Context, messages []llm.ChatMessage, opts llm.Options) (string, error) {
	f.calls++
	f.messages = messages
	f.opts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func testLogger() *logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Level = "error"
	return logger.New(cfg)
}

func newTestTurnService(provider llm.Provider) *TurnService {
	return NewTurnService(provider, TurnServiceConfig{}, nil, testLogger())
}

func lunaCharacter() *TurnCharacter {
	return &TurnCharacter{
		Name:        "Luna",
		Description: "A mysterious witch",
		Greeting:    "Welcome, traveler",
	}
}

func TestSystemPromptAssembly(t *testing.T) {
	prompt := SystemPrompt(lunaCharacter())

	assert.True(t, strings.HasPrefix(prompt, "A mysterious witch"))
	assert.Contains(t, prompt, "Character Background: Welcome, traveler")
	assert.Contains(t, prompt, "IMPORTANT GUIDELINES:")
	assert.Contains(t, prompt, "Keep conversations appropriate and respectful")
	assert.True(t, strings.HasSuffix(prompt,
		"Respond naturally as Luna while following community guidelines."))
}

func TestBuildMessagesOrderAndCount(t *testing.T) {
	req := &TurnRequest{
		Message:   "What does my future hold?",
		Character: lunaCharacter(),
		History: []HistoryEntry{
			{Role: "user", Content: "Hello"},
			{Role: "character", Content: "Greetings"},
			{Role: "assistant", Content: "The cards are ready"},
		},
	}

	messages := BuildMessages(req)
	require.Len(t, messages, len(req.History)+2)

	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)
	assert.Equal(t, "Hello", messages[1].Content)

	// Any non-user role in history maps to assistant.
	assert.Equal(t, "assistant", messages[2].Role)
	assert.Equal(t, "assistant", messages[3].Role)

	last := messages[len(messages)-1]
	assert.Equal(t, "user", last.Role)
	assert.Equal(t, "What does my future hold?", last.Content)
}

func TestBuildMessagesEmptyHistory(t *testing.T) {
	req := &TurnRequest{Message: "hi", Character: lunaCharacter()}

	messages := BuildMessages(req)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)
}

func TestGenerateRejectsInvalidRequests(t *testing.T) {
	provider := &fakeProvider{reply: "never"}
	svc := newTestTurnService(provider)

	cases := []struct {
		name string
		req  *TurnRequest
	}{
		{"empty message", &TurnRequest{Message: "", Character: lunaCharacter()}},
		{"whitespace message", &TurnRequest{Message: "   ", Character: lunaCharacter()}},
		{"missing character", &TurnRequest{Message: "hi"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Generate(context.Background(), tc.req)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeInvalidRequest))
			assert.Equal(t, http.StatusBadRequest, apperrors.GetStatusCode(err))
			assert.Equal(t, "Invalid request format", apperrors.FromError(err).Message)
		})
	}
	assert.Zero(t, provider.calls)
}

func TestGenerateReturnsReplyVerbatim(t *testing.T) {
	provider := &fakeProvider{reply: "  *smiles* The future is bright.  "}
	svc := newTestTurnService(provider)

	reply, err := svc.Generate(context.Background(), &TurnRequest{
		Message:   "hi",
		Character: lunaCharacter(),
	})
	require.NoError(t, err)
	assert.Equal(t, "  *smiles* The future is bright.  ", reply)
	assert.Equal(t, 1, provider.calls)
}

func TestGenerateUsesConfiguredOptions(t *testing.T) {
	provider := &fakeProvider{reply: "ok"}
	svc := newTestTurnService(provider)

	_, err := svc.Generate(context.Background(), &TurnRequest{
		Message:   "hi",
		Character: lunaCharacter(),
	})
	require.NoError(t, err)

	assert.Equal(t, "llama-3.3-70b-versatile", provider.opts.Model)
	assert.Equal(t, 0.7, provider.opts.Temperature)
	assert.Equal(t, 500, provider.opts.MaxTokens)
}

func TestGenerateMapsAuthFailureToConfigurationError(t *testing.T) {
	provider := &fakeProvider{err: &llm.ProviderError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid API Key",
		Auth:       true,
	}}
	svc := newTestTurnService(provider)

	_, err := svc.Generate(context.Background(), &TurnRequest{
		Message:   "hi",
		Character: lunaCharacter(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeConfigurationError))
	assert.Equal(t, http.StatusInternalServerError, apperrors.GetStatusCode(err))
	assert.Equal(t,
		"Groq API key is missing or invalid. Please check your environment variables.",
		apperrors.FromError(err).Message)
}

func TestRepeatedAuthFailuresStayConfigurationError(t *testing.T) {
	provider := &fakeProvider{err: &llm.ProviderError{
		StatusCode: http.StatusUnauthorized,
		Message:    "Invalid API Key",
		Auth:       true,
	}}
	svc := newTestTurnService(provider)

	// Well past the breaker's failure threshold. A misconfigured key must
	// keep reaching the provider and keep reporting as a configuration
	// problem, never degrade into a generic upstream error.
	for i := 0; i < 8; i++ {
		_, err := svc.Generate(context.Background(), &TurnRequest{
			Message:   "hi",
			Character: lunaCharacter(),
		})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.CodeConfigurationError))
	}
	assert.Equal(t, 8, provider.calls)
}

func TestGenerateMapsOtherFailuresToUpstreamError(t *testing.T) {
	provider := &fakeProvider{err: &llm.ProviderError{
		StatusCode: http.StatusServiceUnavailable,
		Message:    "model overloaded",
	}}
	svc := newTestTurnService(provider)

	_, err := svc.Generate(context.Background(), &TurnRequest{
		Message:   "hi",
		Character: lunaCharacter(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeUpstreamError))
	assert.Equal(t, "Failed to get response from Groq: model overloaded",
		apperrors.FromError(err).Message)
}

func TestGenerateCallsProviderOnce(t *testing.T) {
	provider := &fakeProvider{err: &llm.ProviderError{Message: "boom"}}
	svc := newTestTurnService(provider)

	_, err := svc.Generate(context.Background(), &TurnRequest{
		Message:   "hi",
		Character: lunaCharacter(),
	})
	require.Error(t, err)
	assert.Equal(t, 1, provider.calls)
}
