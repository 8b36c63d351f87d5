package evaluation

import (
	"context"
	"fmt"
	"strings"

	"regaudit-backend/llm"
)

const judgePrompt = `You are an expert evaluator for financial regulatory questions.

Determine whether the following two answers are semantically equivalent
for the purpose of scoring correctness.
Return ONLY 1 (correct) or 0 (incorrect).

GOLD ANSWER:
%s

PREDICTED ANSWER:
%s

Is the predicted answer fully consistent with the gold answer?`

// AnswerJudge scores semantic equivalence between a predicted answer
// and the gold answer using an LLM call. Used for canonical-answer
// tasks where exact string match is too strict.
type AnswerJudge struct {
	llm llm.Client
}

// NewAnswerJudge creates a judge backed by the given LLM
func NewAnswerJudge(client llm.Client) *AnswerJudge {
	return &AnswerJudge{llm: client}
}

// Judge returns true when the predicted answer is judged equivalent to
// the gold answer
func (j *AnswerJudge) Judge(ctx context.Context, predicted, gold string) (bool, error) {
	prompt := fmt.Sprintf(judgePrompt, gold, predicted)

	raw, err := j.llm.Generate(ctx, llm.UserMessage(prompt))
	if err != nil {
		return false, fmt.Errorf("answer judge call failed: %w", err)
	}

	return strings.HasPrefix(strings.TrimSpace(raw), "1"), nil
}
