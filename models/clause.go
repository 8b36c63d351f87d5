package models

// Clause represents a single regulatory obligation in the knowledge base
type Clause struct {
	ClauseID       string   `json:"clause_id"`
	Regime         string   `json:"regime"`
	ShortName      string   `json:"short_name"`
	ObligationType string   `json:"obligation_type"`
	Summary        string   `json:"summary"`
	Keywords       []string `json:"keywords"`
	Jurisdiction   string   `json:"jurisdiction"`
	RiskLevel      string   `json:"risk_level"`
}

// EmbeddingText returns the text used to embed a clause into the
// retrieval index
func (c Clause) EmbeddingText() string {
	return c.ShortName + ": " + c.Summary
}

// ClauseRef is the identifying subset of a clause carried inside an
// audit chain's linked_clauses
type ClauseRef struct {
	ClauseID       string `json:"clause_id"`
	ShortName      string `json:"short_name"`
	ObligationType string `json:"obligation_type"`
	Summary        string `json:"summary"`
}

// Ref returns the clause's identifying fields for audit chain linkage
func (c Clause) Ref() ClauseRef {
	return ClauseRef{
		ClauseID:       c.ClauseID,
		ShortName:      c.ShortName,
		ObligationType: c.ObligationType,
		Summary:        c.Summary,
	}
}
