package repository

import (
	"context"
	"time"

	"regaudit-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditJobRepository handles database operations for audit jobs
type AuditJobRepository struct {
	db *pgxpool.Pool
}

// NewAuditJobRepository creates a new audit job repository
func NewAuditJobRepository(db *pgxpool.Pool) *AuditJobRepository {
	return &AuditJobRepository{db: db}
}

// Create creates a new audit job
func (r *AuditJobRepository) Create(ctx context.Context, job *models.AuditJob) error {
	query := `
		INSERT INTO audit_jobs (
			status, scenario_count, iterative, max_iterations,
			current_step, steps, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		job.Status,
		job.ScenarioCount,
		job.Iterative,
		job.MaxIterations,
		job.CurrentStep,
		job.Steps,
		job.ErrorMessage,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	return err
}

// GetByID retrieves an audit job by ID
func (r *AuditJobRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AuditJob, error) {
	job := &models.AuditJob{}
	query := `
		SELECT id, status, scenario_count, iterative, max_iterations,
			current_step, steps, report_path, error_message,
			created_at, updated_at, completed_at
		FROM audit_jobs
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&job.ID,
		&job.Status,
		&job.ScenarioCount,
		&job.Iterative,
		&job.MaxIterations,
		&job.CurrentStep,
		&job.Steps,
		&job.ReportPath,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if job.Steps == nil {
		job.Steps = make(models.AuditSteps, 0)
	}

	return job, nil
}

// UpdateStatus updates the status of an audit job
func (r *AuditJobRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.AuditJobStatus) error {
	query := `
		UPDATE audit_jobs
		SET status = $2, updated_at = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status, time.Now())
	return err
}

// UpdateProgress updates the current step and step list
func (r *AuditJobRepository) UpdateProgress(ctx context.Context, id uuid.UUID, currentStep string, steps models.AuditSteps) error {
	query := `
		UPDATE audit_jobs
		SET current_step = $2, steps = $3, updated_at = $4
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, currentStep, steps, time.Now())
	return err
}

// SetReportPath records where the exported report was archived
func (r *AuditJobRepository) SetReportPath(ctx context.Context, id uuid.UUID, reportPath string) error {
	query := `
		UPDATE audit_jobs
		SET report_path = $2, updated_at = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, reportPath, time.Now())
	return err
}

// Complete marks a job as completed
func (r *AuditJobRepository) Complete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE audit_jobs
		SET status = $2, updated_at = $3, completed_at = $3
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusCompleted, now)
	return err
}

// Fail marks a job as failed with an error message
func (r *AuditJobRepository) Fail(ctx context.Context, id uuid.UUID, errorMessage string) error {
	query := `
		UPDATE audit_jobs
		SET status = $2, error_message = $3, updated_at = $4
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, models.JobStatusFailed, errorMessage, time.Now())
	return err
}
