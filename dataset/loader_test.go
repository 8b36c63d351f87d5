package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"regaudit-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleScenarios() []models.Scenario {
	gold := "A contract for difference"
	return []models.Scenario{
		{
			ScenarioID:        "sc-001",
			UserMessage:       "Can I stop paying my debt?",
			AssistantResponse: "You should speak to your lender about a payment plan.",
			ComplianceLabel:   models.LabelCompliant,
			LinkedClauses:     []string{"FCA-CONC-5.2A"},
			TaskType:          models.TaskDialogue,
		},
		{
			ScenarioID:         "sc-002",
			UserMessage:        "What is a CFD?",
			AssistantResponse:  "A contract for difference",
			ComplianceLabel:    models.LabelCompliant,
			TaskType:           models.TaskDefinition,
			GoldAnswer:         &gold,
			EscalationRequired: false,
		},
	}
}

func TestScenarioRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.jsonl")
	require.NoError(t, SaveScenarios(sampleScenarios(), path))

	loaded, err := LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "sc-001", loaded[0].ScenarioID)
	assert.Equal(t, []string{"FCA-CONC-5.2A"}, loaded[0].LinkedClauses)
	require.NotNil(t, loaded[1].GoldAnswer)
	assert.Equal(t, "A contract for difference", *loaded[1].GoldAnswer)
}

func TestLoadScenariosSkipsBlankLinesAndDefaultsTaskType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.jsonl")
	content := `{"scenario_id": "a", "user_message": "u", "assistant_response": "r", "compliance_label": "COMPLIANT"}

{"scenario_id": "b", "user_message": "u2", "assistant_response": "r2", "compliance_label": "BREACH", "task_type": "reg_qa"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loaded, err := LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, models.TaskDialogue, loaded[0].TaskType)
	assert.Equal(t, models.TaskRegQA, loaded[1].TaskType)
}

func TestLoadScenariosRejectsMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{not json}\n"), 0644))

	_, err := LoadScenarios(path)
	assert.ErrorContains(t, err, "line 1")
}

func TestAuditChainRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "chains.json")
	chains := []models.AuditChain{
		{
			ScenarioID:     "sc-001",
			ExtractedFacts: []string{"fact"},
			DetectedRisks:  []string{},
			ComplianceAssessment: models.ComplianceAssessment{
				Label:     models.LabelBreach,
				Rationale: "bad advice",
			},
			RequiredActions:    []string{"Escalate to human reviewer."},
			EscalationDecision: models.EscalationResult{Escalate: true, Reason: "breach"},
			SoftResult:         models.SoftResult{Score: 0.8, Level: models.RiskHigh},
		},
	}

	require.NoError(t, SaveAuditChains(chains, path))

	loaded, err := LoadAuditChains(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, chains[0].ScenarioID, loaded[0].ScenarioID)
	assert.Equal(t, chains[0].ComplianceAssessment, loaded[0].ComplianceAssessment)
	assert.True(t, loaded[0].EscalationDecision.Escalate)
}

func TestLoadClauses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.json")
	content := `[
		{"clause_id": "C1", "regime": "FCA", "short_name": "Suitability", "summary": "Advice must be suitable.", "keywords": ["advice"]},
		{"clause_id": "C2", "regime": "FCA", "short_name": "Affordability", "summary": "Assess ability to repay."}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	clauses, err := LoadClauses(path)
	require.NoError(t, err)
	require.Len(t, clauses, 2)
	assert.Equal(t, "C1", clauses[0].ClauseID)
	assert.Equal(t, "Suitability: Advice must be suitable.", clauses[0].EmbeddingText())
}

func TestExportScenariosCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.csv")
	require.NoError(t, ExportScenariosCSV(sampleScenarios(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "scenario_id")
	assert.Contains(t, lines[1], "FCA-CONC-5.2A")
	assert.Contains(t, lines[2], "A contract for difference")
}
