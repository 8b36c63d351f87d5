package evaluation

import (
	"context"
	"errors"
	"testing"

	"regaudit-backend/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLLM struct {
	response string
	err      error
}

func (s *stubLLM) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	return s.response, s.err
}

func TestJudgeAcceptsEquivalentAnswer(t *testing.T) {
	judge := NewAnswerJudge(&stubLLM{response: "1"})

	ok, err := judge.Judge(context.Background(), "a forward rate agreement", "A Forward Rate Agreement")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJudgeRejectsDifferentAnswer(t *testing.T) {
	judge := NewAnswerJudge(&stubLLM{response: "0"})

	ok, err := judge.Judge(context.Background(), "an interest rate swap", "A Forward Rate Agreement")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestJudgeToleratesTrailingText(t *testing.T) {
	judge := NewAnswerJudge(&stubLLM{response: " 1 (the answers are equivalent)"})

	ok, err := judge.Judge(context.Background(), "x", "x")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestJudgePropagatesBackendError(t *testing.T) {
	judge := NewAnswerJudge(&stubLLM{err: errors.New("backend down")})

	_, err := judge.Judge(context.Background(), "x", "x")
	assert.Error(t, err)
}
