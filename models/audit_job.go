package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditJobStatus represents the status of a batch audit job
type AuditJobStatus string

const (
	JobStatusPending    AuditJobStatus = "pending"
	JobStatusInProgress AuditJobStatus = "in_progress"
	JobStatusCompleted  AuditJobStatus = "completed"
	JobStatusFailed     AuditJobStatus = "failed"
)

// AuditStep represents a step in a batch audit run
type AuditStep struct {
	Name        string `json:"name"`
	Status      string `json:"status"` // "pending", "in_progress", "completed", "failed"
	Description string `json:"description,omitempty"`
}

// AuditSteps represents the ordered step list of an audit job
type AuditSteps []AuditStep

// Value implements driver.Valuer for JSONB
func (s AuditSteps) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB
func (s *AuditSteps) Scan(value interface{}) error {
	if value == nil {
		*s = make(AuditSteps, 0)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if len(bytes) == 0 {
		*s = make(AuditSteps, 0)
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// AuditJob tracks one batch audit run over a set of scenarios
type AuditJob struct {
	ID            uuid.UUID      `json:"id"`
	Status        AuditJobStatus `json:"status"`
	ScenarioCount int            `json:"scenario_count"`
	Iterative     bool           `json:"iterative"`
	MaxIterations int            `json:"max_iterations"`
	CurrentStep   *string        `json:"current_step,omitempty"`
	Steps         AuditSteps     `json:"steps"`
	ReportPath    *string        `json:"report_path,omitempty"`
	ErrorMessage  *string        `json:"error_message,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}
