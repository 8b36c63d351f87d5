package models

// ComplianceLabel is the annotated compliance outcome for a scenario
type ComplianceLabel string

const (
	LabelCompliant         ComplianceLabel = "COMPLIANT"
	LabelBreach            ComplianceLabel = "BREACH"
	LabelHighRisk          ComplianceLabel = "HIGH_RISK"
	LabelMissingObligation ComplianceLabel = "MISSING_OBLIGATION"
)

// NonCompliant reports whether the label itself marks the interaction
// as a compliance problem
func (l ComplianceLabel) NonCompliant() bool {
	return l == LabelBreach || l == LabelHighRisk || l == LabelMissingObligation
}

// KnownLabels lists every accepted compliance label value
var KnownLabels = []ComplianceLabel{
	LabelCompliant,
	LabelBreach,
	LabelHighRisk,
	LabelMissingObligation,
}

// TaskType distinguishes free dialogue scenarios from canonical-answer
// benchmark tasks
type TaskType string

const (
	TaskDialogue   TaskType = "dialogue"
	TaskDefinition TaskType = "definition"
	TaskRegQA      TaskType = "reg_qa"
	TaskXBRL       TaskType = "xbrl"
	TaskCDM        TaskType = "cdm"
	TaskMOF        TaskType = "mof"
)

// Canonical reports whether the task is scored against a gold answer
// rather than audited as a dialogue
func (t TaskType) Canonical() bool {
	switch t {
	case TaskDefinition, TaskRegQA, TaskXBRL, TaskCDM, TaskMOF:
		return true
	}
	return false
}

// Scenario is one user/assistant interaction under review
type Scenario struct {
	ScenarioID         string                 `json:"scenario_id"`
	UserMessage        string                 `json:"user_message"`
	AssistantResponse  string                 `json:"assistant_response"`
	ComplianceLabel    ComplianceLabel        `json:"compliance_label"`
	Notes              string                 `json:"notes,omitempty"`
	EscalationRequired bool                   `json:"escalation_required,omitempty"`
	LinkedClauses      []string               `json:"linked_clauses,omitempty"`
	TaskType           TaskType               `json:"task_type,omitempty"`
	GoldAnswer         *string                `json:"gold_answer,omitempty"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
}

// Clone returns an independent copy of the scenario. The refinement
// controller mutates the assistant response across iterations and must
// never touch the caller's record.
func (s Scenario) Clone() Scenario {
	out := s
	if s.LinkedClauses != nil {
		out.LinkedClauses = append([]string(nil), s.LinkedClauses...)
	}
	if s.GoldAnswer != nil {
		gold := *s.GoldAnswer
		out.GoldAnswer = &gold
	}
	if s.Metadata != nil {
		meta := make(map[string]interface{}, len(s.Metadata))
		for k, v := range s.Metadata {
			meta[k] = v
		}
		out.Metadata = meta
	}
	return out
}

// CombinedText joins the user message and assistant response, the text
// every critic and retrieval call operates on
func (s Scenario) CombinedText() string {
	return s.UserMessage + " " + s.AssistantResponse
}
