package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"regaudit-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuditChainRepository handles database operations for audit chains
type AuditChainRepository struct {
	db *pgxpool.Pool
}

// NewAuditChainRepository creates a new audit chain repository
func NewAuditChainRepository(db *pgxpool.Pool) *AuditChainRepository {
	return &AuditChainRepository{db: db}
}

// Insert stores one audit chain produced by a job. Iteration is the
// refinement iteration index, 0 for single-pass runs.
func (r *AuditChainRepository) Insert(ctx context.Context, jobID uuid.UUID, iteration int, chain models.AuditChain) error {
	payload, err := json.Marshal(chain)
	if err != nil {
		return fmt.Errorf("failed to marshal audit chain: %w", err)
	}

	query := `
		INSERT INTO audit_chains (
			job_id, scenario_id, iteration, escalate, chain
		) VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.Exec(
		ctx, query,
		jobID,
		chain.ScenarioID,
		iteration,
		chain.EscalationDecision.Escalate,
		payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit chain for %s: %w", chain.ScenarioID, err)
	}
	return nil
}

// ListByJob returns every chain of a job in insertion order
func (r *AuditChainRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.AuditChain, error) {
	query := `
		SELECT chain
		FROM audit_chains
		WHERE job_id = $1
		ORDER BY id`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit chains: %w", err)
	}
	defer rows.Close()

	var chains []models.AuditChain
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan audit chain: %w", err)
		}
		var chain models.AuditChain
		if err := json.Unmarshal(payload, &chain); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit chain: %w", err)
		}
		chains = append(chains, chain)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit chains: %w", err)
	}

	return chains, nil
}

// ListByScenario returns every stored chain for a scenario across jobs,
// newest first
func (r *AuditChainRepository) ListByScenario(ctx context.Context, scenarioID string) ([]models.AuditChain, error) {
	query := `
		SELECT chain
		FROM audit_chains
		WHERE scenario_id = $1
		ORDER BY id DESC`

	rows, err := r.db.Query(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit chains: %w", err)
	}
	defer rows.Close()

	var chains []models.AuditChain
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan audit chain: %w", err)
		}
		var chain models.AuditChain
		if err := json.Unmarshal(payload, &chain); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit chain: %w", err)
		}
		chains = append(chains, chain)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit chains: %w", err)
	}

	return chains, nil
}
