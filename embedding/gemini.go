package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	embeddingAPI = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:embedContent"
	batchAPI     = "https://generativelanguage.googleapis.com/v1beta/models/gemini-embedding-001:batchEmbedContents"

	embeddingModel = "models/gemini-embedding-001"
	// Dimensions is the embedding width used across the index and the
	// pgvector column
	Dimensions = 768

	maxRetries     = 3
	initialBackoff = time.Second
)

// EmbeddingRequest represents an embedding API request
type EmbeddingRequest struct {
	Model                string       `json:"model"`
	Content              ContentInput `json:"content"`
	TaskType             string       `json:"task_type,omitempty"`
	OutputDimensionality int          `json:"output_dimensionality,omitempty"`
}

// ContentInput represents content for embedding
type ContentInput struct {
	Parts []PartInput `json:"parts"`
}

// PartInput represents a part of content
type PartInput struct {
	Text string `json:"text"`
}

// EmbeddingResponse represents an embedding API response
type EmbeddingResponse struct {
	Embedding EmbeddingData `json:"embedding"`
}

// EmbeddingData contains the embedding values
type EmbeddingData struct {
	Values []float64 `json:"values"`
}

// BatchEmbeddingItem is the structure returned by the batch API (no
// nested "embedding" key)
type BatchEmbeddingItem struct {
	Values []float64 `json:"values"`
}

type batchEmbeddingRequest struct {
	Requests []EmbeddingRequest `json:"requests"`
}

type batchEmbeddingResponse struct {
	Embeddings []BatchEmbeddingItem `json:"embeddings"`
}

// GeminiEncoder implements Encoder against the Gemini embedding API.
// Vectors are L2-normalized, so cosine similarity reduces to a dot
// product over the index.
type GeminiEncoder struct {
	apiKey     string
	taskType   string
	httpClient *http.Client
}

// NewGeminiEncoder creates a Gemini embedding encoder
func NewGeminiEncoder(apiKey string) (*GeminiEncoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	return &GeminiEncoder{
		apiKey:     apiKey,
		taskType:   "RETRIEVAL_QUERY",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Encode embeds a single text with bounded exponential backoff
func (e *GeminiEncoder) Encode(ctx context.Context, text string) ([]float64, error) {
	reqBody := EmbeddingRequest{
		Model: embeddingModel,
		Content: ContentInput{
			Parts: []PartInput{{Text: text}},
		},
		TaskType:             e.taskType,
		OutputDimensionality: Dimensions,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", embeddingAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", e.apiKey)

		resp, err := e.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp EmbeddingResponse
			if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
				resp.Body.Close()
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode response: %w", err)
				}
				continue
			}
			resp.Body.Close()

			vec := apiResp.Embedding.Values
			Normalize(vec)
			return vec, nil
		}

		resp.Body.Close()

		// Don't retry on 400 or 401 errors
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("API error: %d", resp.StatusCode)
		}

		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, ErrEmbeddingFailed
}

// EncodeBatch embeds several texts in one batch call
func (e *GeminiEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	batch := batchEmbeddingRequest{Requests: make([]EmbeddingRequest, 0, len(texts))}
	for _, text := range texts {
		batch.Requests = append(batch.Requests, EmbeddingRequest{
			Model: embeddingModel,
			Content: ContentInput{
				Parts: []PartInput{{Text: text}},
			},
			TaskType:             "RETRIEVAL_DOCUMENT",
			OutputDimensionality: Dimensions,
		})
	}

	jsonData, err := json.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch request: %w", err)
	}

	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		req, err := http.NewRequestWithContext(ctx, "POST", batchAPI, bytes.NewBuffer(jsonData))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", e.apiKey)

		resp, err := e.httpClient.Do(req)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to send batch request after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			var apiResp batchEmbeddingResponse
			if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
				resp.Body.Close()
				if attempt == maxRetries-1 {
					return nil, fmt.Errorf("failed to decode batch response: %w", err)
				}
				continue
			}
			resp.Body.Close()

			if len(apiResp.Embeddings) != len(texts) {
				return nil, fmt.Errorf("batch API returned %d embeddings for %d texts", len(apiResp.Embeddings), len(texts))
			}

			out := make([][]float64, 0, len(texts))
			for _, item := range apiResp.Embeddings {
				vec := item.Values
				Normalize(vec)
				out = append(out, vec)
			}
			return out, nil
		}

		resp.Body.Close()

		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("API error: %d", resp.StatusCode)
		}

		if attempt == maxRetries-1 {
			return nil, fmt.Errorf("API error after %d attempts: %d", maxRetries, resp.StatusCode)
		}
	}

	return nil, ErrEmbeddingFailed
}
