package repository

import (
	"context"
	"fmt"
	"strings"

	"regaudit-backend/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ClauseRepository handles database operations for regulatory clauses
type ClauseRepository struct {
	db *pgxpool.Pool
}

// NewClauseRepository creates a new clause repository
func NewClauseRepository(db *pgxpool.Pool) *ClauseRepository {
	return &ClauseRepository{db: db}
}

// formatVector formats an embedding vector as a string for pgx
func formatVector(embedding []float64) string {
	if len(embedding) == 0 {
		return "[]"
	}
	var parts []string
	for _, v := range embedding {
		parts = append(parts, fmt.Sprintf("%.6f", v))
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Insert stores a clause with its precomputed embedding
func (r *ClauseRepository) Insert(ctx context.Context, clause models.Clause, embedding []float64) error {
	query := `
		INSERT INTO regulatory_clauses (
			clause_id, regime, short_name, obligation_type, summary,
			keywords, jurisdiction, risk_level, embedding
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::vector)
		ON CONFLICT (clause_id) DO UPDATE SET
			regime = EXCLUDED.regime,
			short_name = EXCLUDED.short_name,
			obligation_type = EXCLUDED.obligation_type,
			summary = EXCLUDED.summary,
			keywords = EXCLUDED.keywords,
			jurisdiction = EXCLUDED.jurisdiction,
			risk_level = EXCLUDED.risk_level,
			embedding = EXCLUDED.embedding`

	_, err := r.db.Exec(
		ctx, query,
		clause.ClauseID,
		clause.Regime,
		clause.ShortName,
		clause.ObligationType,
		clause.Summary,
		clause.Keywords,
		clause.Jurisdiction,
		clause.RiskLevel,
		formatVector(embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to insert clause %s: %w", clause.ClauseID, err)
	}
	return nil
}

// List returns every clause in insertion order
func (r *ClauseRepository) List(ctx context.Context) ([]models.Clause, error) {
	query := `
		SELECT clause_id, regime, short_name, obligation_type, summary,
			keywords, jurisdiction, risk_level
		FROM regulatory_clauses
		ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query clauses: %w", err)
	}
	defer rows.Close()

	var clauses []models.Clause
	for rows.Next() {
		var c models.Clause
		err := rows.Scan(
			&c.ClauseID,
			&c.Regime,
			&c.ShortName,
			&c.ObligationType,
			&c.Summary,
			&c.Keywords,
			&c.Jurisdiction,
			&c.RiskLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clause: %w", err)
		}
		clauses = append(clauses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clauses: %w", err)
	}

	return clauses, nil
}

// SearchSimilar returns the clauses nearest to the query embedding by
// pgvector cosine distance
func (r *ClauseRepository) SearchSimilar(ctx context.Context, embedding []float64, limit int) ([]models.Clause, error) {
	vectorStr := formatVector(embedding)

	query := `
		SELECT clause_id, regime, short_name, obligation_type, summary,
			keywords, jurisdiction, risk_level
		FROM regulatory_clauses
		ORDER BY embedding <=> $1::vector
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, vectorStr, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar clauses: %w", err)
	}
	defer rows.Close()

	var clauses []models.Clause
	for rows.Next() {
		var c models.Clause
		err := rows.Scan(
			&c.ClauseID,
			&c.Regime,
			&c.ShortName,
			&c.ObligationType,
			&c.Summary,
			&c.Keywords,
			&c.Jurisdiction,
			&c.RiskLevel,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clause: %w", err)
		}
		clauses = append(clauses, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clauses: %w", err)
	}

	return clauses, nil
}

// Count returns the number of stored clauses
func (r *ClauseRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM regulatory_clauses").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count clauses: %w", err)
	}
	return count, nil
}
