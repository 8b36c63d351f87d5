package service

import (
	"context"

	"regaudit-backend/models"
)

const defaultMaxIterations = 3

// RefinementController repeatedly applies the oversight pipeline,
// replacing the assistant response with the synthesizer's guidance
// after each pass, up to a bounded iteration budget. It operates on a
// copy of the scenario; the caller's record is never mutated.
type RefinementController struct {
	pipeline      *Pipeline
	maxIterations int
}

// NewRefinementController creates a controller; iteration budgets <= 0
// fall back to the default
func NewRefinementController(pipeline *Pipeline, maxIterations int) *RefinementController {
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}
	return &RefinementController{
		pipeline:      pipeline,
		maxIterations: maxIterations,
	}
}

// Run returns the step-by-step refinement trail. Trail length is at
// most the iteration budget, and exactly 1 when the synthesizer never
// proposes replacement text.
func (c *RefinementController) Run(ctx context.Context, scenario models.Scenario) []models.AuditChain {
	working := scenario.Clone()
	trail := make([]models.AuditChain, 0, c.maxIterations)

	for iter := 0; iter < c.maxIterations; iter++ {
		pass := c.pipeline.Audit(ctx, working)
		trail = append(trail, pass.Chain)

		replacement := pass.Chain.ImprovementSuggestion.ReplacementGuidance

		// Clean first pass with nothing proposed: nothing to refine
		if iter == 0 && !pass.Hard.NonCompliant && pass.Soft.Level != models.RiskHigh && replacement == "" {
			break
		}
		// No further improvement available
		if replacement == "" {
			break
		}

		working.AssistantResponse = replacement
	}

	return trail
}
