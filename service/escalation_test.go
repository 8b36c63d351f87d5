package service

import (
	"testing"

	"regaudit-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestEscalationCleanPass(t *testing.T) {
	decider := NewEscalationDecider(0.5)
	result := decider.Decide(
		models.Scenario{ComplianceLabel: models.LabelCompliant},
		models.HardResult{},
		models.SoftResult{Score: 0.2, Level: models.RiskLow},
		models.RetrievalMeta{Confidence: 0.8},
	)

	assert.False(t, result.Escalate)
	assert.Contains(t, result.Reason, "No strong indicators")
}

func TestEscalationTriggers(t *testing.T) {
	decider := NewEscalationDecider(0.5)
	clean := struct {
		scenario models.Scenario
		hard     models.HardResult
		soft     models.SoftResult
		meta     models.RetrievalMeta
	}{
		scenario: models.Scenario{ComplianceLabel: models.LabelCompliant},
		soft:     models.SoftResult{Score: 0.2},
		meta:     models.RetrievalMeta{Confidence: 0.8},
	}

	tests := []struct {
		name   string
		mutate func(*models.Scenario, *models.HardResult, *models.SoftResult, *models.RetrievalMeta)
		reason string
	}{
		{
			name:   "hard non-compliance",
			mutate: func(s *models.Scenario, h *models.HardResult, _ *models.SoftResult, _ *models.RetrievalMeta) { h.NonCompliant = true },
			reason: "compliance breach",
		},
		{
			name:   "soft risk at threshold",
			mutate: func(_ *models.Scenario, _ *models.HardResult, r *models.SoftResult, _ *models.RetrievalMeta) { r.Score = 0.5 },
			reason: "Soft critic",
		},
		{
			name:   "retrieval failed",
			mutate: func(_ *models.Scenario, _ *models.HardResult, _ *models.SoftResult, m *models.RetrievalMeta) { m.Failed = true },
			reason: "retrieval failed",
		},
		{
			name: "retrieval confidence below cut",
			mutate: func(_ *models.Scenario, _ *models.HardResult, _ *models.SoftResult, m *models.RetrievalMeta) {
				m.Confidence = 0.1
			},
			reason: "very low",
		},
		{
			name:   "annotation requires escalation",
			mutate: func(s *models.Scenario, _ *models.HardResult, _ *models.SoftResult, _ *models.RetrievalMeta) { s.EscalationRequired = true },
			reason: "annotation requires escalation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scenario, hard, soft, meta := clean.scenario, clean.hard, clean.soft, clean.meta
			tt.mutate(&scenario, &hard, &soft, &meta)

			result := decider.Decide(scenario, hard, soft, meta)
			assert.True(t, result.Escalate)
			assert.Contains(t, result.Reason, tt.reason)
		})
	}
}

func TestEscalationIsDeterministic(t *testing.T) {
	decider := NewEscalationDecider(0.5)
	scenario := models.Scenario{ComplianceLabel: models.LabelHighRisk}
	hard := models.HardResult{NonCompliant: true, LabelFlag: true}
	soft := models.SoftResult{Score: 0.75, Level: models.RiskHigh}
	meta := models.RetrievalMeta{Confidence: 0.15, Failed: true}

	first := decider.Decide(scenario, hard, soft, meta)
	second := decider.Decide(scenario, hard, soft, meta)

	assert.Equal(t, first, second)
	assert.True(t, first.Escalate)
}

func TestEscalationReasonsJoined(t *testing.T) {
	decider := NewEscalationDecider(0.5)
	result := decider.Decide(
		models.Scenario{},
		models.HardResult{NonCompliant: true},
		models.SoftResult{Score: 0.9, Level: models.RiskHigh},
		models.RetrievalMeta{Confidence: 0.8},
	)

	assert.True(t, result.Escalate)
	assert.Contains(t, result.Reason, "; ", "multiple reasons are concatenated")
	assert.Contains(t, result.Reason, "compliance breach")
	assert.Contains(t, result.Reason, "0.90")
}

func TestEscalationDefaultThreshold(t *testing.T) {
	decider := NewEscalationDecider(0)
	result := decider.Decide(
		models.Scenario{},
		models.HardResult{},
		models.SoftResult{Score: 0.5, Level: models.RiskMedium},
		models.RetrievalMeta{Confidence: 0.8},
	)

	assert.True(t, result.Escalate, "score at the default 0.5 threshold escalates")
}

func TestEscalationBelowThresholdStays(t *testing.T) {
	decider := NewEscalationDecider(0.5)
	result := decider.Decide(
		models.Scenario{},
		models.HardResult{},
		models.SoftResult{Score: 0.49, Level: models.RiskMedium},
		models.RetrievalMeta{Confidence: 0.8},
	)

	assert.False(t, result.Escalate)
}
