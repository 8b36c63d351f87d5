package main

import (
	"flag"
	"log"
	"os"

	"regaudit-backend/dataset"
)

// validate-data checks the clause collection and scenario file for
// referential problems before a batch run.
func main() {
	kbPath := flag.String("kb", "./data/knowledge_base.json", "path to the clause collection JSON")
	scenarioPath := flag.String("scenarios", "./data/scenarios.jsonl", "path to the scenario JSONL file")
	flag.Parse()

	clauses, err := dataset.LoadClauses(*kbPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	log.Printf("Loaded %d clauses from %s", len(clauses), *kbPath)

	scenarios, err := dataset.LoadScenarios(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}
	log.Printf("Loaded %d scenarios from %s", len(scenarios), *scenarioPath)

	warnings := dataset.Validate(clauses, scenarios)
	if len(warnings) == 0 {
		log.Println("✅ Dataset is valid")
		return
	}

	for _, w := range warnings {
		log.Printf("⚠️  %s", w)
	}
	log.Printf("Found %d problems", len(warnings))
	os.Exit(1)
}
