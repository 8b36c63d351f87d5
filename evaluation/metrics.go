// Package evaluation computes retrieval and escalation metrics over
// audit chains against their annotated scenarios. It consumes the
// pipeline's output; no decision logic lives here.
package evaluation

import (
	"regaudit-backend/models"
)

// PRF holds precision, recall and F1 for the escalate=true class
type PRF struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// AtK holds precision@k and recall@k for clause retrieval
type AtK struct {
	Precision float64 `json:"precision_at_k"`
	Recall    float64 `json:"recall_at_k"`
}

func scenarioIndex(scenarios []models.Scenario) map[string]models.Scenario {
	byID := make(map[string]models.Scenario, len(scenarios))
	for _, s := range scenarios {
		byID[s.ScenarioID] = s
	}
	return byID
}

// ClauseCoverage computes the mean proportion of gold clause IDs that
// appear in each audit chain's linked clauses. Scenarios without gold
// annotations are skipped.
func ClauseCoverage(chains []models.AuditChain, scenarios []models.Scenario) float64 {
	byID := scenarioIndex(scenarios)
	var sum float64
	n := 0

	for _, chain := range chains {
		s, ok := byID[chain.ScenarioID]
		if !ok || len(s.LinkedClauses) == 0 {
			continue
		}

		predicted := make(map[string]bool, len(chain.LinkedClauses))
		for _, c := range chain.LinkedClauses {
			predicted[c.ClauseID] = true
		}

		hit := 0
		for _, id := range s.LinkedClauses {
			if predicted[id] {
				hit++
			}
		}
		sum += float64(hit) / float64(len(s.LinkedClauses))
		n++
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// LenientCoverage computes the fraction of annotated scenarios where
// at least one gold clause was retrieved
func LenientCoverage(chains []models.AuditChain, scenarios []models.Scenario) float64 {
	byID := scenarioIndex(scenarios)
	covered := 0
	total := 0

	for _, chain := range chains {
		s, ok := byID[chain.ScenarioID]
		if !ok || len(s.LinkedClauses) == 0 {
			continue
		}
		total++

		predicted := make(map[string]bool, len(chain.LinkedClauses))
		for _, c := range chain.LinkedClauses {
			predicted[c.ClauseID] = true
		}
		for _, id := range s.LinkedClauses {
			if predicted[id] {
				covered++
				break
			}
		}
	}

	if total == 0 {
		return 0
	}
	return float64(covered) / float64(total)
}

// PrecisionRecallAtK computes mean precision@k and recall@k for clause
// retrieval over annotated scenarios
func PrecisionRecallAtK(chains []models.AuditChain, scenarios []models.Scenario, k int) AtK {
	byID := scenarioIndex(scenarios)
	var precisions, recalls []float64

	for _, chain := range chains {
		s, ok := byID[chain.ScenarioID]
		if !ok || len(s.LinkedClauses) == 0 {
			continue
		}

		gold := make(map[string]bool, len(s.LinkedClauses))
		for _, id := range s.LinkedClauses {
			gold[id] = true
		}

		linked := chain.LinkedClauses
		if len(linked) > k {
			linked = linked[:k]
		}

		tp := 0
		seen := make(map[string]bool, len(linked))
		for _, c := range linked {
			if seen[c.ClauseID] {
				continue
			}
			seen[c.ClauseID] = true
			if gold[c.ClauseID] {
				tp++
			}
		}

		if len(seen) > 0 {
			precisions = append(precisions, float64(tp)/float64(len(seen)))
		} else {
			precisions = append(precisions, 0)
		}
		recalls = append(recalls, float64(tp)/float64(len(s.LinkedClauses)))
	}

	out := AtK{}
	if len(precisions) > 0 {
		out.Precision = mean(precisions)
		out.Recall = mean(recalls)
	}
	return out
}

// EscalationAccuracy compares escalation decisions against the
// annotated escalation_required flag
func EscalationAccuracy(chains []models.AuditChain, scenarios []models.Scenario) float64 {
	byID := scenarioIndex(scenarios)
	correct := 0
	total := 0

	for _, chain := range chains {
		s, ok := byID[chain.ScenarioID]
		if !ok {
			continue
		}
		total++
		if s.EscalationRequired == chain.EscalationDecision.Escalate {
			correct++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// EscalationPRF computes precision, recall and F1 for the positive
// class escalate=true
func EscalationPRF(chains []models.AuditChain, scenarios []models.Scenario) PRF {
	byID := scenarioIndex(scenarios)
	tp, fp, fn := 0, 0, 0

	for _, chain := range chains {
		s, ok := byID[chain.ScenarioID]
		if !ok {
			continue
		}
		pred := chain.EscalationDecision.Escalate
		gold := s.EscalationRequired

		switch {
		case pred && gold:
			tp++
		case pred && !gold:
			fp++
		case !pred && gold:
			fn++
		}
	}

	var out PRF
	if tp+fp > 0 {
		out.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		out.Recall = float64(tp) / float64(tp+fn)
	}
	if out.Precision+out.Recall > 0 {
		out.F1 = 2 * out.Precision * out.Recall / (out.Precision + out.Recall)
	}
	return out
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
