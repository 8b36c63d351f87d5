package dataset

import (
	"testing"

	"regaudit-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCleanDataset(t *testing.T) {
	clauses := []models.Clause{
		{ClauseID: "C1"},
		{ClauseID: "C2"},
	}
	scenarios := []models.Scenario{
		{ScenarioID: "s1", ComplianceLabel: models.LabelCompliant, LinkedClauses: []string{"C1"}},
		{ScenarioID: "s2", ComplianceLabel: models.LabelBreach, LinkedClauses: []string{"C1", "C2"}},
	}

	assert.Empty(t, Validate(clauses, scenarios))
}

func TestValidateFindsProblems(t *testing.T) {
	clauses := []models.Clause{
		{ClauseID: "C1"},
		{ClauseID: "C1"},
	}
	scenarios := []models.Scenario{
		{ScenarioID: "s1", ComplianceLabel: models.LabelCompliant},
		{ScenarioID: "s1", ComplianceLabel: "MAYBE", LinkedClauses: []string{"C9"}},
	}

	warnings := Validate(clauses, scenarios)
	require.Len(t, warnings, 4)
	assert.Contains(t, warnings[0], `duplicate clause_id "C1"`)
	assert.Contains(t, warnings[1], `duplicate scenario_id "s1"`)
	assert.Contains(t, warnings[2], `unexpected compliance_label "MAYBE"`)
	assert.Contains(t, warnings[3], `unknown clause "C9"`)
}
