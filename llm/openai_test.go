package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClientRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOpenAIGenerate(t *testing.T) {
	var gotReq chatCompletionRequest
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"choices": [{"message": {"content": "generated text"}}]}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("test-key",
		OpenAIWithBaseURL(srv.URL),
		OpenAIWithModel("test-model"),
		OpenAIWithMaxTokens(256),
	)
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), UserMessage("hello"))
	require.NoError(t, err)

	assert.Equal(t, "generated text", out)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotReq.Model)
	assert.Equal(t, 256, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "hello", gotReq.Messages[0].Content)
}

func TestOpenAIGenerateNoRetryOnBadRequest(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad prompt"}}`))
	}))
	defer srv.Close()

	client, err := NewOpenAIClient("test-key", OpenAIWithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), UserMessage("hello"))
	require.Error(t, err)
	assert.Equal(t, 1, requests, "client errors must not be retried")
}

func TestUserMessage(t *testing.T) {
	msgs := UserMessage("content")
	require.Len(t, msgs, 1)
	assert.Equal(t, Message{Role: "user", Content: "content"}, msgs[0])
}
