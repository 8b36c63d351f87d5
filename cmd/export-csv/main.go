package main

import (
	"flag"
	"log"

	"regaudit-backend/dataset"
)

// export-csv flattens a scenario JSONL file to CSV for spreadsheet
// review by compliance staff.
func main() {
	scenarioPath := flag.String("scenarios", "./data/scenarios.jsonl", "path to the scenario JSONL file")
	outputPath := flag.String("output", "./out/scenarios.csv", "path for the CSV export")
	flag.Parse()

	scenarios, err := dataset.LoadScenarios(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}

	if err := dataset.ExportScenariosCSV(scenarios, *outputPath); err != nil {
		log.Fatalf("Failed to export CSV: %v", err)
	}

	log.Printf("✅ Exported %d scenarios to %s", len(scenarios), *outputPath)
}
