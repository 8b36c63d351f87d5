package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"regaudit-backend/models"
	"regaudit-backend/repository"
	"regaudit-backend/storage"

	"github.com/google/uuid"
)

// AuditService runs batch audits as background jobs: a fast create
// call returns a job ID, processing happens in a goroutine, and the
// resulting chains are persisted and archived as a JSON report.
type AuditService struct {
	jobRepo   *repository.AuditJobRepository
	chainRepo *repository.AuditChainRepository
	pipeline  *Pipeline
	storage   storage.Storage
}

// AuditServiceOption is a functional option for AuditService
type AuditServiceOption func(*AuditService)

// AuditWithJobRepository sets the audit job repository
func AuditWithJobRepository(repo *repository.AuditJobRepository) AuditServiceOption {
	return func(s *AuditService) {
		s.jobRepo = repo
	}
}

// AuditWithChainRepository sets the audit chain repository
func AuditWithChainRepository(repo *repository.AuditChainRepository) AuditServiceOption {
	return func(s *AuditService) {
		s.chainRepo = repo
	}
}

// AuditWithPipeline sets the oversight pipeline
func AuditWithPipeline(pipeline *Pipeline) AuditServiceOption {
	return func(s *AuditService) {
		s.pipeline = pipeline
	}
}

// AuditWithStorage sets the report archive backend
func AuditWithStorage(store storage.Storage) AuditServiceOption {
	return func(s *AuditService) {
		s.storage = store
	}
}

// NewAuditService creates a new audit service
func NewAuditService(opts ...AuditServiceOption) *AuditService {
	s := &AuditService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	ErrNoScenarios   = errors.New("no scenarios supplied")
	ErrJobCreation   = errors.New("failed to create audit job")
	ErrJobNotFound   = errors.New("audit job not found")
	ErrPipelineUnset = errors.New("audit pipeline not set")
)

const (
	stepRunPipeline   = "Running audit pipeline"
	stepPersistChains = "Persisting audit chains"
	stepExportReport  = "Exporting report"
)

// CreateAuditJobRequest represents a request to audit a scenario batch
type CreateAuditJobRequest struct {
	Scenarios     []models.Scenario
	Iterative     bool
	MaxIterations int
}

// CreateAuditJobResult represents the result of creating an audit job
type CreateAuditJobResult struct {
	JobID uuid.UUID
}

// CreateAuditJob validates the batch and creates a pending job. The
// call is fast; processing happens in ProcessAudit.
func (s *AuditService) CreateAuditJob(
	ctx context.Context,
	req CreateAuditJobRequest,
) (*CreateAuditJobResult, error) {
	if s.jobRepo == nil {
		return nil, errors.New("audit job repository not set")
	}
	if len(req.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	maxIterations := req.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	job := &models.AuditJob{
		Status:        models.JobStatusPending,
		ScenarioCount: len(req.Scenarios),
		Iterative:     req.Iterative,
		MaxIterations: maxIterations,
		Steps: models.AuditSteps{
			{Name: stepRunPipeline, Status: "pending"},
			{Name: stepPersistChains, Status: "pending"},
			{Name: stepExportReport, Status: "pending"},
		},
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, ErrJobCreation
	}

	return &CreateAuditJobResult{JobID: job.ID}, nil
}

// GetJob retrieves an audit job by ID
func (s *AuditService) GetJob(ctx context.Context, jobID uuid.UUID) (*models.AuditJob, error) {
	if s.jobRepo == nil {
		return nil, errors.New("audit job repository not set")
	}
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// GetJobChains retrieves the chains a job produced
func (s *AuditService) GetJobChains(ctx context.Context, jobID uuid.UUID) ([]models.AuditChain, error) {
	if s.chainRepo == nil {
		return nil, errors.New("audit chain repository not set")
	}
	return s.chainRepo.ListByJob(ctx, jobID)
}

// ProcessAudit performs the batch work in the background. Individual
// scenario failures degrade inside the pipeline; a degraded audit
// chain is always preferable to a missing one, so the batch never
// aborts mid-run over one scenario.
func (s *AuditService) ProcessAudit(
	ctx context.Context,
	jobID uuid.UUID,
	scenarios []models.Scenario,
) error {
	if s.jobRepo == nil {
		return errors.New("audit job repository not set")
	}
	if s.pipeline == nil {
		s.markJobFailed(ctx, jobID, ErrPipelineUnset.Error())
		return ErrPipelineUnset
	}

	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("failed to load audit job: %w", err)
	}

	if err := s.jobRepo.UpdateStatus(ctx, jobID, models.JobStatusInProgress); err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}

	// 1. Run the pipeline over every scenario
	if err := s.updateStepStatus(ctx, jobID, stepRunPipeline, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	type produced struct {
		iteration int
		chain     models.AuditChain
	}
	var results []produced

	for _, scenario := range scenarios {
		if job.Iterative {
			controller := NewRefinementController(s.pipeline, job.MaxIterations)
			trail := controller.Run(ctx, scenario)
			for i, chain := range trail {
				results = append(results, produced{iteration: i, chain: chain})
			}
		} else {
			pass := s.pipeline.Audit(ctx, scenario)
			results = append(results, produced{iteration: 0, chain: pass.Chain})
		}
	}

	if err := s.updateStepStatus(ctx, jobID, stepRunPipeline, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 2. Persist chains
	if err := s.updateStepStatus(ctx, jobID, stepPersistChains, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	if s.chainRepo != nil {
		for _, res := range results {
			if err := s.chainRepo.Insert(ctx, jobID, res.iteration, res.chain); err != nil {
				log.Printf("Warning: failed to persist chain for %s: %v", res.chain.ScenarioID, err)
			}
		}
	}

	if err := s.updateStepStatus(ctx, jobID, stepPersistChains, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	// 3. Export report
	if err := s.updateStepStatus(ctx, jobID, stepExportReport, "in_progress"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	if s.storage != nil {
		chains := make([]models.AuditChain, 0, len(results))
		for _, res := range results {
			chains = append(chains, res.chain)
		}
		reportPath, err := s.exportReport(ctx, jobID, chains)
		if err != nil {
			log.Printf("Warning: failed to export report for job %s: %v", jobID, err)
		} else if err := s.jobRepo.SetReportPath(ctx, jobID, reportPath); err != nil {
			log.Printf("Warning: failed to record report path for job %s: %v", jobID, err)
		}
	}

	if err := s.updateStepStatus(ctx, jobID, stepExportReport, "completed"); err != nil {
		s.markJobFailed(ctx, jobID, "failed to update step: "+err.Error())
		return err
	}

	if err := s.jobRepo.Complete(ctx, jobID); err != nil {
		return fmt.Errorf("failed to complete job: %w", err)
	}

	return nil
}

// exportReport archives the chains as a JSON document
func (s *AuditService) exportReport(ctx context.Context, jobID uuid.UUID, chains []models.AuditChain) (string, error) {
	data, err := json.MarshalIndent(chains, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	filename := fmt.Sprintf("audit_chains_%s.json", jobID)
	return s.storage.Upload(ctx, jobID, filename, bytes.NewReader(data))
}

// updateStepStatus updates the status of a specific step in the job
func (s *AuditService) updateStepStatus(ctx context.Context, jobID uuid.UUID, stepName, status string) error {
	job, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	steps := job.Steps
	var currentStep string
	if job.CurrentStep != nil {
		currentStep = *job.CurrentStep
	}

	for i := range steps {
		if steps[i].Name == stepName {
			steps[i].Status = status
			if status == "in_progress" {
				currentStep = stepName
			}
			break
		}
	}

	return s.jobRepo.UpdateProgress(ctx, jobID, currentStep, steps)
}

// markJobFailed marks a job as failed with an error message
func (s *AuditService) markJobFailed(ctx context.Context, jobID uuid.UUID, errorMessage string) {
	if err := s.jobRepo.Fail(ctx, jobID, errorMessage); err != nil {
		log.Printf("Warning: failed to mark job %s as failed: %v", jobID, err)
	}
}
