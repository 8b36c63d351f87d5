package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient implements Client on top of the Gemini API
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
}

// GeminiOption is a functional option for GeminiClient
type GeminiOption func(*GeminiClient)

// GeminiWithModel sets the model identifier
func GeminiWithModel(model string) GeminiOption {
	return func(c *GeminiClient) {
		c.model = model
	}
}

// GeminiWithTemperature sets the sampling temperature
func GeminiWithTemperature(t float32) GeminiOption {
	return func(c *GeminiClient) {
		c.temperature = t
	}
}

// GeminiWithMaxTokens caps the output length
func GeminiWithMaxTokens(n int32) GeminiOption {
	return func(c *GeminiClient) {
		c.maxTokens = n
	}
}

// NewGeminiClient creates a Gemini-backed LLM client. A missing API key
// is fatal for the caller: it is the one configuration error that must
// surface before any scenario is processed.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &GeminiClient{
		client:      client,
		model:       "gemini-2.0-flash",
		temperature: 0.2,
		maxTokens:   1024,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases the underlying client
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Generate sends the messages to Gemini with bounded exponential
// backoff on transient failures
func (c *GeminiClient) Generate(ctx context.Context, messages []Message) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)
	model.SetMaxOutputTokens(c.maxTokens)

	var system, prompt strings.Builder
	for _, m := range messages {
		if m.Role == "system" {
			system.WriteString(m.Content)
			system.WriteString("\n")
			continue
		}
		prompt.WriteString(m.Content)
		prompt.WriteString("\n")
	}
	if system.Len() > 0 {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(strings.TrimSpace(system.String()))},
		}
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		resp, err := model.GenerateContent(ctx, genai.Text(strings.TrimSpace(prompt.String())))
		if err != nil {
			lastErr = err
			log.Printf("Warning: Gemini call failed (attempt %d/%d): %v", attempt+1, maxRetries, err)
			continue
		}

		text := collectText(resp)
		if text == "" {
			lastErr = ErrEmptyResponse
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrGenerateFailed, maxRetries, lastErr)
}

// collectText concatenates all text parts of the first candidate
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}

	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				out.WriteString(string(text))
			}
		}
	}
	return out.String()
}
