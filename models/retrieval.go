package models

// RetrievalMeta carries the reliability signals of a retrieval pass.
// It is propagated unmodified through the critics to the escalation
// decider and the audit chain.
type RetrievalMeta struct {
	Confidence   float64 `json:"retrieval_confidence"`
	UsedFallback bool    `json:"used_web_fallback"`
	Failed       bool    `json:"retrieval_failed"`
}

// RetrievalResult is the ranked output of one retrieval call
type RetrievalResult struct {
	Clauses      []Clause `json:"clauses"`
	Confidence   float64  `json:"retrieval_confidence"`
	UsedFallback bool     `json:"used_web_fallback"`
	Failed       bool     `json:"retrieval_failed"`
}

// Meta extracts the reliability signals for downstream components
func (r RetrievalResult) Meta() RetrievalMeta {
	return RetrievalMeta{
		Confidence:   r.Confidence,
		UsedFallback: r.UsedFallback,
		Failed:       r.Failed,
	}
}

// ClauseIDs returns the retrieved clause identifiers in rank order
func (r RetrievalResult) ClauseIDs() []string {
	ids := make([]string, 0, len(r.Clauses))
	for _, c := range r.Clauses {
		ids = append(ids, c.ClauseID)
	}
	return ids
}
