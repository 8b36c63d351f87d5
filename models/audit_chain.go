package models

// ComplianceAssessment is the label/rationale pair inside an audit chain
type ComplianceAssessment struct {
	Label     ComplianceLabel `json:"label"`
	Rationale string          `json:"rationale"`
}

// ImprovementSuggestion carries the synthesizer's replacement guidance
// for the assistant response. An empty ReplacementGuidance means the
// synthesizer saw nothing to improve.
type ImprovementSuggestion struct {
	ReplacementGuidance string `json:"replacement_guidance"`
	StyleNotes          string `json:"style_notes,omitempty"`
}

// AuditChain is the final structured record produced for one pipeline
// pass over a scenario
type AuditChain struct {
	ScenarioID            string                `json:"scenario_id"`
	ExtractedFacts        []string              `json:"extracted_facts"`
	DetectedRisks         []string              `json:"detected_risks"`
	LinkedClauses         []ClauseRef           `json:"linked_clauses"`
	ComplianceAssessment  ComplianceAssessment  `json:"compliance_assessment"`
	RequiredActions       []string              `json:"required_actions"`
	EscalationDecision    EscalationResult      `json:"escalation_decision"`
	ImprovementSuggestion ImprovementSuggestion `json:"improvement_suggestion"`
	Retrieval             RetrievalMeta         `json:"retrieval"`
	HardResult            HardResult            `json:"hard_result"`
	SoftResult            SoftResult            `json:"soft_result"`
}
