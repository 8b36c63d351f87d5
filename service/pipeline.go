package service

import (
	"context"

	"regaudit-backend/models"
)

// Pipeline runs one full oversight pass: retrieval, both critics,
// escalation and audit-chain synthesis
type Pipeline struct {
	retriever *RetrievalEngine
	hard      *HardCritic
	soft      *SoftCritic
	escalator *EscalationDecider
	builder   *AuditChainBuilder
}

// PipelineOption is a functional option for Pipeline
type PipelineOption func(*Pipeline)

// PipelineWithRetriever sets the retrieval engine
func PipelineWithRetriever(retriever *RetrievalEngine) PipelineOption {
	return func(p *Pipeline) {
		p.retriever = retriever
	}
}

// PipelineWithHardCritic sets the deterministic critic
func PipelineWithHardCritic(hard *HardCritic) PipelineOption {
	return func(p *Pipeline) {
		p.hard = hard
	}
}

// PipelineWithSoftCritic sets the LLM risk critic
func PipelineWithSoftCritic(soft *SoftCritic) PipelineOption {
	return func(p *Pipeline) {
		p.soft = soft
	}
}

// PipelineWithEscalationDecider sets the escalation decider
func PipelineWithEscalationDecider(escalator *EscalationDecider) PipelineOption {
	return func(p *Pipeline) {
		p.escalator = escalator
	}
}

// PipelineWithAuditChainBuilder sets the synthesizer
func PipelineWithAuditChainBuilder(builder *AuditChainBuilder) PipelineOption {
	return func(p *Pipeline) {
		p.builder = builder
	}
}

// NewPipeline creates a pipeline; unset components fall back to
// defaults where one exists
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		hard:      NewHardCritic(),
		escalator: NewEscalationDecider(defaultRiskThreshold),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PassResult carries the audit chain of one pass together with the
// intermediate signals, which the refinement controller's stop rules
// need
type PassResult struct {
	Chain      models.AuditChain
	Retrieval  models.RetrievalResult
	Hard       models.HardResult
	Soft       models.SoftResult
	Escalation models.EscalationResult
}

// Audit runs the full chain over one scenario. It never fails outward:
// every upstream failure degrades inside its component.
func (p *Pipeline) Audit(ctx context.Context, scenario models.Scenario) PassResult {
	retrieval := p.retriever.Retrieve(ctx, scenario.CombinedText())
	meta := retrieval.Meta()

	hard := p.hard.Evaluate(scenario, retrieval.Clauses, &meta)
	soft := p.soft.Assess(ctx, scenario, meta, hard)
	escalation := p.escalator.Decide(scenario, hard, soft, meta)
	chain := p.builder.Build(ctx, scenario, retrieval.Clauses, hard, soft, escalation, meta)

	return PassResult{
		Chain:      chain,
		Retrieval:  retrieval,
		Hard:       hard,
		Soft:       soft,
		Escalation: escalation,
	}
}
