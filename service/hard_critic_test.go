package service

import (
	"testing"

	"regaudit-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestHardCriticCompliantDialogue(t *testing.T) {
	critic := NewHardCritic()
	scenario := models.Scenario{
		ScenarioID:        "s1",
		UserMessage:       "What is an ISA allowance?",
		AssistantResponse: "The annual ISA allowance is a tax-free savings limit set by the government.",
		ComplianceLabel:   models.LabelCompliant,
		TaskType:          models.TaskDialogue,
	}

	result := critic.Evaluate(scenario, testClauses(), nil)

	assert.False(t, result.NonCompliant)
	assert.False(t, result.LabelFlag)
	assert.False(t, result.PatternFlag)
	assert.Equal(t, "dialogue", result.EvaluationType)
}

func TestHardCriticLabelFlag(t *testing.T) {
	critic := NewHardCritic()
	scenario := models.Scenario{
		ScenarioID:        "s2",
		UserMessage:       "Should I invest my savings?",
		AssistantResponse: "Put everything into this one stock.",
		ComplianceLabel:   models.LabelBreach,
	}

	result := critic.Evaluate(scenario, nil, nil)

	assert.True(t, result.NonCompliant)
	assert.True(t, result.LabelFlag)
	assert.False(t, result.PatternFlag)
}

func TestHardCriticPatternConjunction(t *testing.T) {
	critic := NewHardCritic()
	scenario := models.Scenario{
		ScenarioID:        "s3",
		UserMessage:       "I lost my job last month. Can I still get a bigger mortgage?",
		AssistantResponse: "Sure, you could apply for a larger mortgage.",
		ComplianceLabel:   models.LabelCompliant,
	}

	result := critic.Evaluate(scenario, nil, nil)

	assert.True(t, result.PatternFlag)
	assert.True(t, result.NonCompliant, "pattern match overrides a compliant label")
	assert.Contains(t, result.Explanation, "mortgage_affordability")
}

func TestHardCriticPatternNeedsBothTerms(t *testing.T) {
	critic := NewHardCritic()
	scenario := models.Scenario{
		ScenarioID:        "s4",
		UserMessage:       "I lost my job last month. What benefits can I claim?",
		AssistantResponse: "You may be eligible for jobseeker support.",
		ComplianceLabel:   models.LabelCompliant,
	}

	result := critic.Evaluate(scenario, nil, nil)

	assert.False(t, result.PatternFlag, "single term must not fire a conjunction")
	assert.False(t, result.NonCompliant)
}

func TestHardCriticCoverage(t *testing.T) {
	critic := NewHardCritic()
	scenario := models.Scenario{
		ScenarioID:      "s5",
		ComplianceLabel: models.LabelCompliant,
		LinkedClauses:   []string{"FCA-COBS-9.2.1", "MISSING-CLAUSE"},
	}

	result := critic.Evaluate(scenario, testClauses(), nil)

	assert.InDelta(t, 0.5, result.Coverage, 1e-9)
	assert.Equal(t, []string{"FCA-COBS-9.2.1", "MISSING-CLAUSE"}, result.GoldClauseIDs)
	assert.Len(t, result.RetrievedClauseIDs, 3)
}

func TestHardCriticCoverageNoGold(t *testing.T) {
	critic := NewHardCritic()
	scenario := models.Scenario{ScenarioID: "s6", ComplianceLabel: models.LabelCompliant}

	result := critic.Evaluate(scenario, testClauses(), nil)

	assert.Zero(t, result.Coverage)
	assert.False(t, result.NonCompliant)
}

func TestHardCriticCanonicalAnswerMatch(t *testing.T) {
	critic := NewHardCritic()
	gold := "A Forward Rate Agreement"
	scenario := models.Scenario{
		ScenarioID:        "s7",
		TaskType:          models.TaskDefinition,
		AssistantResponse: "  a forward rate agreement ",
		GoldAnswer:        &gold,
	}

	result := critic.Evaluate(scenario, nil, nil)

	assert.Equal(t, "answer_accuracy", result.EvaluationType)
	assert.False(t, result.NonCompliant)
	assert.InDelta(t, 1.0, result.Coverage, 1e-9)
}

func TestHardCriticCanonicalAnswerMismatch(t *testing.T) {
	critic := NewHardCritic()
	gold := "A Forward Rate Agreement"
	scenario := models.Scenario{
		ScenarioID:        "s8",
		TaskType:          models.TaskRegQA,
		AssistantResponse: "An interest rate swap",
		GoldAnswer:        &gold,
	}

	result := critic.Evaluate(scenario, nil, nil)

	assert.True(t, result.NonCompliant)
	assert.True(t, result.LabelFlag)
}

func TestHardCriticRetrievalMetaPassthrough(t *testing.T) {
	critic := NewHardCritic()
	meta := &models.RetrievalMeta{Confidence: 0.8, UsedFallback: true}
	scenario := models.Scenario{ScenarioID: "s9", ComplianceLabel: models.LabelCompliant}

	result := critic.Evaluate(scenario, nil, meta)

	assert.Same(t, meta, result.Retrieval)
}
