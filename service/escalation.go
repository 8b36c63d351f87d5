package service

import (
	"fmt"
	"strings"

	"regaudit-backend/models"
)

const (
	defaultRiskThreshold = 0.5
	// lowConfidenceCut is the retrieval confidence under which
	// escalation triggers even without a failure flag
	lowConfidenceCut = 0.20
)

// EscalationDecider combines hard compliance, soft risk and retrieval
// reliability into an escalate/do-not-escalate verdict. Pure and
// stateless: identical inputs always yield an identical result.
type EscalationDecider struct {
	riskThreshold float64
}

// NewEscalationDecider creates a decider with the given soft-risk
// threshold; values <= 0 fall back to the default
func NewEscalationDecider(riskThreshold float64) *EscalationDecider {
	if riskThreshold <= 0 {
		riskThreshold = defaultRiskThreshold
	}
	return &EscalationDecider{riskThreshold: riskThreshold}
}

// Decide evaluates every trigger in fixed order and concatenates the
// explanations of those that fired
func (d *EscalationDecider) Decide(
	scenario models.Scenario,
	hard models.HardResult,
	soft models.SoftResult,
	meta models.RetrievalMeta,
) models.EscalationResult {
	var reasons []string

	if hard.NonCompliant {
		reasons = append(reasons, "Hard-rule analysis indicates a likely compliance breach.")
	}
	if soft.Score >= d.riskThreshold {
		reasons = append(reasons, fmt.Sprintf("Soft critic estimates %s risk (score=%.2f).", soft.Level, soft.Score))
	}
	if meta.Failed {
		reasons = append(reasons, "Clause retrieval failed or produced unreliable results.")
	}
	if meta.Confidence < lowConfidenceCut {
		reasons = append(reasons, "Clause retrieval confidence is very low (<0.20).")
	}
	if scenario.EscalationRequired {
		reasons = append(reasons, "Scenario annotation requires escalation.")
	}

	escalate := hard.NonCompliant ||
		soft.Score >= d.riskThreshold ||
		meta.Failed ||
		meta.Confidence < lowConfidenceCut ||
		scenario.EscalationRequired

	if escalate && len(reasons) == 0 {
		reasons = append(reasons, "Escalation triggered due to detected risk conditions.")
	}
	if !escalate {
		reasons = append(reasons, "No strong indicators of breach or elevated risk detected.")
	}

	return models.EscalationResult{
		Escalate: escalate,
		Reason:   strings.Join(reasons, "; "),
	}
}
