// Package dataset handles the file formats at the system boundary:
// clause KB JSON, scenario JSONL, and the audit-chain output document.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"regaudit-backend/models"
)

// LoadClauses reads a clause collection from a JSON file
func LoadClauses(path string) ([]models.Clause, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read KB file: %w", err)
	}

	var clauses []models.Clause
	if err := json.Unmarshal(data, &clauses); err != nil {
		return nil, fmt.Errorf("failed to parse KB file: %w", err)
	}
	return clauses, nil
}

// LoadScenarios reads scenarios from a line-delimited JSON file,
// skipping blank lines
func LoadScenarios(path string) ([]models.Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenarios file: %w", err)
	}
	defer f.Close()

	var scenarios []models.Scenario
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var s models.Scenario
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, fmt.Errorf("failed to parse scenario at line %d: %w", lineNo, err)
		}
		if s.TaskType == "" {
			s.TaskType = models.TaskDialogue
		}
		scenarios = append(scenarios, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read scenarios file: %w", err)
	}
	return scenarios, nil
}

// SaveScenarios writes scenarios as line-delimited JSON
func SaveScenarios(scenarios []models.Scenario, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create scenarios file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, s := range scenarios {
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("failed to write scenario %s: %w", s.ScenarioID, err)
		}
	}
	return w.Flush()
}

// SaveAuditChains writes the audit output document, an indented JSON
// array of audit chains
func SaveAuditChains(chains []models.AuditChain, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(chains, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal audit chains: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write audit chains: %w", err)
	}
	return nil
}

// LoadAuditChains reads an audit output document back
func LoadAuditChains(path string) ([]models.AuditChain, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit chains: %w", err)
	}
	var chains []models.AuditChain
	if err := json.Unmarshal(data, &chains); err != nil {
		return nil, fmt.Errorf("failed to parse audit chains: %w", err)
	}
	return chains, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}
