package dataset

import (
	"fmt"

	"regaudit-backend/models"
)

// Validate checks a KB and scenario set for data inconsistencies:
// duplicate identifiers, unknown labels, gold clause references
// missing from the KB. Findings are warnings, never fatal; batch
// processing proceeds regardless.
func Validate(clauses []models.Clause, scenarios []models.Scenario) []string {
	var warnings []string

	clauseIDs := make(map[string]bool, len(clauses))
	for _, c := range clauses {
		if clauseIDs[c.ClauseID] {
			warnings = append(warnings, fmt.Sprintf("duplicate clause_id %q in knowledge base", c.ClauseID))
		}
		clauseIDs[c.ClauseID] = true
	}

	known := make(map[models.ComplianceLabel]bool, len(models.KnownLabels))
	for _, l := range models.KnownLabels {
		known[l] = true
	}

	scenarioIDs := make(map[string]bool, len(scenarios))
	for _, s := range scenarios {
		if scenarioIDs[s.ScenarioID] {
			warnings = append(warnings, fmt.Sprintf("duplicate scenario_id %q", s.ScenarioID))
		}
		scenarioIDs[s.ScenarioID] = true

		if !known[s.ComplianceLabel] {
			warnings = append(warnings, fmt.Sprintf("unexpected compliance_label %q in %s", s.ComplianceLabel, s.ScenarioID))
		}

		for _, id := range s.LinkedClauses {
			if !clauseIDs[id] {
				warnings = append(warnings, fmt.Sprintf("scenario %s references unknown clause %q", s.ScenarioID, id))
			}
		}
	}

	return warnings
}
