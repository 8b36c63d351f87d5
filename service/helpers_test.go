package service

import (
	"context"

	"regaudit-backend/knowledge"
	"regaudit-backend/llm"
	"regaudit-backend/models"
)

// fakeEncoder maps exact texts to fixed vectors, falling back to a
// default vector for anything unmapped
type fakeEncoder struct {
	vectors map[string][]float64
	def     []float64
	err     error
}

func (e *fakeEncoder) Encode(ctx context.Context, text string) ([]float64, error) {
	if e.err != nil {
		return nil, e.err
	}
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return e.def, nil
}

func (e *fakeEncoder) EncodeBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, 0, len(texts))
	for _, t := range texts {
		v, err := e.Encode(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// fakeSearcher records the last query and returns canned snippets
type fakeSearcher struct {
	snippets  []string
	err       error
	lastQuery string
	calls     int
}

func (s *fakeSearcher) Search(ctx context.Context, query string) ([]string, error) {
	s.calls++
	s.lastQuery = query
	if s.err != nil {
		return nil, s.err
	}
	return s.snippets, nil
}

// fakeLLM replays canned responses in order, repeating the last one
// when exhausted
type fakeLLM struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeLLM) Generate(ctx context.Context, messages []llm.Message) (string, error) {
	f.calls++
	if len(messages) > 0 {
		f.prompts = append(f.prompts, messages[len(messages)-1].Content)
	}
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", llm.ErrEmptyResponse
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func testClauses() []models.Clause {
	return []models.Clause{
		{
			ClauseID:       "FCA-COBS-9.2.1",
			Regime:         "FCA",
			ShortName:      "Suitability of advice",
			ObligationType: "suitability",
			Summary:        "A firm must take reasonable steps to ensure a personal recommendation is suitable for the client.",
			RiskLevel:      "high",
		},
		{
			ClauseID:       "FCA-CONC-5.2A",
			Regime:         "FCA",
			ShortName:      "Creditworthiness assessment",
			ObligationType: "affordability",
			Summary:        "A firm must assess the customer's ability to repay before entering a credit agreement.",
			RiskLevel:      "high",
		},
		{
			ClauseID:       "FCA-PRIN-2.1-P7",
			Regime:         "FCA",
			ShortName:      "Clear fair not misleading",
			ObligationType: "communication",
			Summary:        "A firm must pay due regard to the information needs of its clients and communicate in a way that is clear, fair and not misleading.",
			RiskLevel:      "medium",
		},
	}
}

func testStore() *knowledge.Store {
	return knowledge.NewStore(testClauses())
}
