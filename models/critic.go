package models

// HardResult is the output of the deterministic compliance critic
type HardResult struct {
	// Coverage is |gold ∩ retrieved| / max(1, |gold|). Reported for
	// evaluation only; it does not feed the non-compliance decision.
	Coverage           float64        `json:"coverage"`
	NonCompliant       bool           `json:"is_non_compliant"`
	LabelFlag          bool           `json:"label_flag"`
	PatternFlag        bool           `json:"pattern_flag"`
	GoldClauseIDs      []string       `json:"gold_clause_ids"`
	RetrievedClauseIDs []string       `json:"retrieved_clause_ids"`
	EvaluationType     string         `json:"evaluation_type"`
	Explanation        string         `json:"explanation,omitempty"`
	Retrieval          *RetrievalMeta `json:"retrieval,omitempty"`
}

// RiskLevel is the qualitative band derived from the soft risk score
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskLevelFor maps a risk score in [0,1] to its qualitative band
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score >= 0.7:
		return RiskHigh
	case score >= 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}

// SoftResult is the output of the LLM risk critic after all
// deterministic adjustments
type SoftResult struct {
	Score     float64   `json:"risk_score"`
	Level     RiskLevel `json:"risk_level"`
	Rationale string    `json:"rationale"`
}

// EscalationResult is the verdict of the escalation decider
type EscalationResult struct {
	Escalate bool   `json:"escalate"`
	Reason   string `json:"reason"`
}
