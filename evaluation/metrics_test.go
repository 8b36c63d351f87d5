package evaluation

import (
	"testing"

	"regaudit-backend/models"

	"github.com/stretchr/testify/assert"
)

func refs(ids ...string) []models.ClauseRef {
	out := make([]models.ClauseRef, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.ClauseRef{ClauseID: id})
	}
	return out
}

func fixtures() ([]models.AuditChain, []models.Scenario) {
	scenarios := []models.Scenario{
		{ScenarioID: "s1", LinkedClauses: []string{"C1", "C2"}, EscalationRequired: true},
		{ScenarioID: "s2", LinkedClauses: []string{"C3"}, EscalationRequired: false},
		{ScenarioID: "s3", EscalationRequired: true},
	}
	chains := []models.AuditChain{
		{
			ScenarioID:         "s1",
			LinkedClauses:      refs("C1", "C9"),
			EscalationDecision: models.EscalationResult{Escalate: true},
		},
		{
			ScenarioID:         "s2",
			LinkedClauses:      refs("C3", "C4"),
			EscalationDecision: models.EscalationResult{Escalate: true},
		},
		{
			ScenarioID:         "s3",
			LinkedClauses:      refs("C5"),
			EscalationDecision: models.EscalationResult{Escalate: false},
		},
	}
	return chains, scenarios
}

func TestClauseCoverage(t *testing.T) {
	chains, scenarios := fixtures()
	// s1: 1 of 2 gold hit; s2: 1 of 1; s3 skipped (no gold)
	assert.InDelta(t, 0.75, ClauseCoverage(chains, scenarios), 1e-9)
}

func TestLenientCoverage(t *testing.T) {
	chains, scenarios := fixtures()
	assert.InDelta(t, 1.0, LenientCoverage(chains, scenarios), 1e-9)
}

func TestLenientCoverageMiss(t *testing.T) {
	scenarios := []models.Scenario{{ScenarioID: "s1", LinkedClauses: []string{"C1"}}}
	chains := []models.AuditChain{{ScenarioID: "s1", LinkedClauses: refs("C9")}}
	assert.Zero(t, LenientCoverage(chains, scenarios))
}

func TestPrecisionRecallAtK(t *testing.T) {
	chains, scenarios := fixtures()
	atK := PrecisionRecallAtK(chains, scenarios, 5)

	// s1: p=1/2 r=1/2; s2: p=1/2 r=1/1
	assert.InDelta(t, 0.5, atK.Precision, 1e-9)
	assert.InDelta(t, 0.75, atK.Recall, 1e-9)
}

func TestPrecisionRecallAtKTruncates(t *testing.T) {
	scenarios := []models.Scenario{{ScenarioID: "s1", LinkedClauses: []string{"C3"}}}
	chains := []models.AuditChain{{ScenarioID: "s1", LinkedClauses: refs("C1", "C2", "C3")}}

	atK := PrecisionRecallAtK(chains, scenarios, 2)
	assert.Zero(t, atK.Precision, "gold clause outside the top-k is not counted")
	assert.Zero(t, atK.Recall)
}

func TestEscalationAccuracy(t *testing.T) {
	chains, scenarios := fixtures()
	// s1 correct, s2 false positive, s3 false negative
	assert.InDelta(t, 1.0/3.0, EscalationAccuracy(chains, scenarios), 1e-9)
}

func TestEscalationPRF(t *testing.T) {
	chains, scenarios := fixtures()
	prf := EscalationPRF(chains, scenarios)

	// tp=1 fp=1 fn=1
	assert.InDelta(t, 0.5, prf.Precision, 1e-9)
	assert.InDelta(t, 0.5, prf.Recall, 1e-9)
	assert.InDelta(t, 0.5, prf.F1, 1e-9)
}

func TestMetricsEmptyInputs(t *testing.T) {
	assert.Zero(t, ClauseCoverage(nil, nil))
	assert.Zero(t, LenientCoverage(nil, nil))
	assert.Zero(t, EscalationAccuracy(nil, nil))
	prf := EscalationPRF(nil, nil)
	assert.Zero(t, prf.Precision)
	assert.Zero(t, prf.F1)
	atK := PrecisionRecallAtK(nil, nil, 5)
	assert.Zero(t, atK.Precision)
}
