package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"regaudit-backend/models"
)

// ExportScenariosCSV writes a scenario collection as a flat CSV for
// spreadsheet review. List and map fields are serialized inline.
func ExportScenariosCSV(scenarios []models.Scenario, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"scenario_id", "user_message", "assistant_response",
		"compliance_label", "notes", "escalation_required",
		"linked_clauses", "task_type", "gold_answer",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, s := range scenarios {
		gold := ""
		if s.GoldAnswer != nil {
			gold = *s.GoldAnswer
		}
		record := []string{
			s.ScenarioID,
			s.UserMessage,
			s.AssistantResponse,
			string(s.ComplianceLabel),
			s.Notes,
			strconv.FormatBool(s.EscalationRequired),
			strings.Join(s.LinkedClauses, "|"),
			string(s.TaskType),
			gold,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record for %s: %w", s.ScenarioID, err)
		}
	}

	return nil
}
