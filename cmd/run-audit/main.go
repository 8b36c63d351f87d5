package main

import (
	"context"
	"flag"
	"log"
	"os"

	"regaudit-backend/dataset"
	"regaudit-backend/embedding"
	"regaudit-backend/evaluation"
	"regaudit-backend/knowledge"
	"regaudit-backend/llm"
	"regaudit-backend/models"
	"regaudit-backend/search"
	"regaudit-backend/service"

	"github.com/joho/godotenv"
)

// run-audit drives the full oversight pipeline over a scenario file
// without the HTTP server or the database, writing the resulting audit
// chains to a JSON report.
func main() {
	kbPath := flag.String("kb", "./data/knowledge_base.json", "path to the clause collection JSON")
	scenarioPath := flag.String("scenarios", "./data/scenarios.jsonl", "path to the scenario JSONL file")
	outputPath := flag.String("output", "./out/audit_chains.json", "path for the audit chain report")
	iterative := flag.Bool("iterative", false, "run the bounded refinement loop per scenario")
	maxIterations := flag.Int("max-iterations", 3, "iteration budget for refinement")
	evaluate := flag.Bool("evaluate", false, "print evaluation metrics against scenario annotations")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found, using environment variables")
	}

	ctx := context.Background()

	store, err := knowledge.LoadFromJSON(*kbPath)
	if err != nil {
		log.Fatalf("Failed to load knowledge base: %v", err)
	}
	log.Printf("Knowledge base loaded: %d clauses", store.Len())

	scenarios, err := dataset.LoadScenarios(*scenarioPath)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}
	log.Printf("Loaded %d scenarios", len(scenarios))

	encoder, err := embedding.NewGeminiEncoder(os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatalf("Failed to initialize encoder: %v", err)
	}

	llmClient, err := initLLM(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	retriever := service.NewRetrievalEngine(
		service.RetrievalWithKnowledgeStore(store),
		service.RetrievalWithEncoder(encoder),
		service.RetrievalWithSearchProvider(search.NewDuckDuckGoClient()),
	)
	if err := retriever.BuildIndex(ctx); err != nil {
		log.Fatalf("Failed to build retrieval index: %v", err)
	}

	pipeline := service.NewPipeline(
		service.PipelineWithRetriever(retriever),
		service.PipelineWithSoftCritic(service.NewSoftCritic(llmClient)),
		service.PipelineWithAuditChainBuilder(service.NewAuditChainBuilder(llmClient)),
	)

	var chains []models.AuditChain
	for i, scenario := range scenarios {
		log.Printf("[%d/%d] Auditing %s", i+1, len(scenarios), scenario.ScenarioID)

		if *iterative {
			controller := service.NewRefinementController(pipeline, *maxIterations)
			trail := controller.Run(ctx, scenario)
			chains = append(chains, trail...)
		} else {
			pass := pipeline.Audit(ctx, scenario)
			chains = append(chains, pass.Chain)
		}
	}

	if err := dataset.SaveAuditChains(chains, *outputPath); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	log.Printf("✅ Wrote %d audit chains to %s", len(chains), *outputPath)

	if *evaluate {
		printMetrics(chains, scenarios)
	}
}

func initLLM(ctx context.Context) (llm.Client, error) {
	if os.Getenv("LLM_PROVIDER") == "openai" {
		return llm.NewOpenAIClient(os.Getenv("OPENAI_API_KEY"))
	}
	return llm.NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"))
}

func printMetrics(chains []models.AuditChain, scenarios []models.Scenario) {
	coverage := evaluation.ClauseCoverage(chains, scenarios)
	lenient := evaluation.LenientCoverage(chains, scenarios)
	atK := evaluation.PrecisionRecallAtK(chains, scenarios, 5)
	accuracy := evaluation.EscalationAccuracy(chains, scenarios)
	prf := evaluation.EscalationPRF(chains, scenarios)

	log.Printf("Clause coverage:        %.3f", coverage)
	log.Printf("Lenient coverage:       %.3f", lenient)
	log.Printf("Precision@5 / Recall@5: %.3f / %.3f", atK.Precision, atK.Recall)
	log.Printf("Escalation accuracy:    %.3f", accuracy)
	log.Printf("Escalation P/R/F1:      %.3f / %.3f / %.3f", prf.Precision, prf.Recall, prf.F1)
}
