package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{Model: "llama-3.3-70b-versatile", Temperature: 0.7, MaxTokens: 500}
}

func TestGenerateSendsChatCompletionRequest(t *testing.T) {
	var captured struct {
		Model       string        `json:"model"`
		Messages    []ChatMessage `json:"messages"`
		Temperature float64       `json:"temperature"`
		MaxTokens   int           `json:"max_tokens"`
	}
	var authHeader, path string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices": [{"message": {"content": "hello there"}}]}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "test-key", 5*time.Second)
	reply, err := client.Generate(context.Background(), []ChatMessage{
		{Role: "system", Content: "be nice"},
		{Role: "user", Content: "hi"},
	}, testOptions())

	require.NoError(t, err)
	assert.Equal(t, "hello there", reply)
	assert.Equal(t, "/chat/completions", path)
	assert.Equal(t, "Bearer test-key", authHeader)
	assert.Equal(t, "llama-3.3-70b-versatile", captured.Model)
	assert.Equal(t, 0.7, captured.Temperature)
	assert.Equal(t, 500, captured.MaxTokens)
	assert.Len(t, captured.Messages, 2)
}

func TestGenerateMissingKeyIsAuthError(t *testing.T) {
	client := NewGroqClient("http://localhost:1", "", time.Second)

	_, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, testOptions())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestGenerateClassifies401AsAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "Invalid API Key"}}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "bad-key", time.Second)
	_, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, testOptions())

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "Invalid API Key")
}

func TestGenerateClassifiesKeyMessageAsAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "api key expired"}}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "old-key", time.Second)
	_, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, testOptions())

	require.Error(t, err)
	assert.True(t, IsAuthError(err))
}

func TestGenerateServerErrorIsNotAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": {"message": "over capacity"}}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "good-key", time.Second)
	_, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, testOptions())

	require.Error(t, err)
	assert.False(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "over capacity")
}

func TestGenerateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	client := NewGroqClient(srv.URL, "key", time.Second)
	_, err := client.Generate(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}, testOptions())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response generated")
}
