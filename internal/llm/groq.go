package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// GroqClient calls Groq's OpenAI-compatible chat completions API.
type GroqClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewGroqClient creates a client with the given credentials. The timeout
// is the hard wall-clock budget for one generation call.
func NewGroqClient(baseURL, apiKey string, timeout time.Duration) *GroqClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &GroqClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate performs one synchronous generation request. No retries are
// attempted; a transport timeout surfaces as a plain ProviderError.
func (c *GroqClient) Generate(ctx context.Context, messages []ChatMessage, opts Options) (string, error) {
	if c.apiKey == "" {
		return "", &ProviderError{
			StatusCode: http.StatusUnauthorized,
			Message:    "API key is not configured",
			Auth:       true,
		}
	}

	requestBody := chatRequest{
		Model:       opts.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &ProviderError{Message: fmt.Sprintf("error making API request: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Message: fmt.Sprintf("error reading response body: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", &ProviderError{Message: fmt.Sprintf("error unmarshaling response: %v", err)}
	}

	if chatResp.Error != nil {
		return "", classifyMessage(resp.StatusCode, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", &ProviderError{Message: "no response generated"}
	}

	return chatResp.Choices[0].Message.Content, nil
}

// classifyHTTPError turns a non-200 response into a ProviderError,
// extracting the provider's error message when the body carries one.
func classifyHTTPError(status int, body []byte) *ProviderError {
	var errResp struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	message := string(body)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		message = errResp.Error.Message
	}
	return classifyMessage(status, message)
}

// classifyMessage marks credential failures so the caller can surface a
// configuration error instead of a generic upstream one.
func classifyMessage(status int, message string) *ProviderError {
	auth := status == http.StatusUnauthorized || status == http.StatusForbidden
	if !auth {
		lower := strings.ToLower(message)
		auth = strings.Contains(lower, "api key") || strings.Contains(lower, "authentication")
	}
	return &ProviderError{StatusCode: status, Message: message, Auth: auth}
}

var _ Provider = (*GroqClient)(nil)
