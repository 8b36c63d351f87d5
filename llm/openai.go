package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultChatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// OpenAIClient implements Client against any OpenAI-compatible chat
// completions endpoint
type OpenAIClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// OpenAIOption is a functional option for OpenAIClient
type OpenAIOption func(*OpenAIClient)

// OpenAIWithModel sets the model identifier
func OpenAIWithModel(model string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.model = model
	}
}

// OpenAIWithBaseURL points the client at a compatible endpoint
func OpenAIWithBaseURL(url string) OpenAIOption {
	return func(c *OpenAIClient) {
		c.baseURL = url
	}
}

// OpenAIWithTemperature sets the sampling temperature
func OpenAIWithTemperature(t float64) OpenAIOption {
	return func(c *OpenAIClient) {
		c.temperature = t
	}
}

// OpenAIWithMaxTokens caps the output length
func OpenAIWithMaxTokens(n int) OpenAIOption {
	return func(c *OpenAIClient) {
		c.maxTokens = n
	}
}

// NewOpenAIClient creates an OpenAI-compatible LLM client
func NewOpenAIClient(apiKey string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	c := &OpenAIClient{
		apiKey:      apiKey,
		baseURL:     defaultChatCompletionsURL,
		model:       "gpt-4o-mini",
		temperature: 0.2,
		maxTokens:   1024,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message,omitempty"`
		Type    string `json:"type,omitempty"`
	} `json:"error,omitempty"`
}

// Generate sends the messages to the chat completions endpoint with
// bounded exponential backoff on transient failures
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	reqBody := chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		bodyBytes, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return "", fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("API error: %d", resp.StatusCode)
			log.Printf("Warning: chat completions call failed (attempt %d/%d): status %d", attempt+1, maxRetries, resp.StatusCode)
			continue
		}

		var apiResp chatCompletionResponse
		if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
			lastErr = fmt.Errorf("failed to decode response: %w", err)
			continue
		}
		if apiResp.Error.Message != "" {
			lastErr = fmt.Errorf("API error: %s", apiResp.Error.Message)
			continue
		}
		if len(apiResp.Choices) == 0 || apiResp.Choices[0].Message.Content == "" {
			lastErr = ErrEmptyResponse
			continue
		}

		return apiResp.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrGenerateFailed, maxRetries, lastErr)
}
