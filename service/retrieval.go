package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"

	"regaudit-backend/embedding"
	"regaudit-backend/knowledge"
	"regaudit-backend/models"
	"regaudit-backend/search"
)

const (
	defaultTopK           = 5
	defaultRetrievalFloor = 0.35
	// failureFloor marks retrieval as unreliable whenever confidence
	// stays below it after any fallback expansion
	failureFloor = 0.10
	// webQuerySuffix anchors the fallback search in the regulatory domain
	webQuerySuffix = " financial regulation compliance obligation"
	// snippetExcerptLen caps the snippet text appended for query expansion
	snippetExcerptLen = 300
)

var ErrIndexNotBuilt = errors.New("retrieval index not built")

// RetrievalEngine grounds free text in the regulatory knowledge base.
// Internal embedding retrieval first; when the best similarity falls
// under the threshold, a web-search fallback expands the query and the
// KB is re-ranked against the expanded embedding.
type RetrievalEngine struct {
	store     *knowledge.Store
	encoder   embedding.Encoder
	searcher  search.Provider
	topK      int
	threshold float64

	// kbVectors is computed once by BuildIndex and read-only afterwards
	kbVectors [][]float64
}

// RetrievalOption is a functional option for RetrievalEngine
type RetrievalOption func(*RetrievalEngine)

// RetrievalWithKnowledgeStore sets the clause store
func RetrievalWithKnowledgeStore(store *knowledge.Store) RetrievalOption {
	return func(e *RetrievalEngine) {
		e.store = store
	}
}

// RetrievalWithEncoder sets the embedding backend
func RetrievalWithEncoder(encoder embedding.Encoder) RetrievalOption {
	return func(e *RetrievalEngine) {
		e.encoder = encoder
	}
}

// RetrievalWithSearchProvider enables the web-search fallback
func RetrievalWithSearchProvider(searcher search.Provider) RetrievalOption {
	return func(e *RetrievalEngine) {
		e.searcher = searcher
	}
}

// RetrievalWithTopK sets the number of clauses returned per call
func RetrievalWithTopK(k int) RetrievalOption {
	return func(e *RetrievalEngine) {
		e.topK = k
	}
}

// RetrievalWithThreshold sets the confidence level under which the
// fallback path is taken
func RetrievalWithThreshold(t float64) RetrievalOption {
	return func(e *RetrievalEngine) {
		e.threshold = t
	}
}

// NewRetrievalEngine creates a retrieval engine. BuildIndex must be
// called before Retrieve.
func NewRetrievalEngine(opts ...RetrievalOption) *RetrievalEngine {
	e := &RetrievalEngine{
		topK:      defaultTopK,
		threshold: defaultRetrievalFloor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BuildIndex embeds every knowledge-base clause once. The resulting
// vectors are immutable for the engine's lifetime.
func (e *RetrievalEngine) BuildIndex(ctx context.Context) error {
	if e.store == nil {
		return errors.New("knowledge store not set")
	}
	if e.encoder == nil {
		return errors.New("encoder not set")
	}
	if e.store.Len() == 0 {
		e.kbVectors = make([][]float64, 0)
		return nil
	}

	vectors, err := e.encoder.EncodeBatch(ctx, e.store.EmbeddingTexts())
	if err != nil {
		return err
	}
	e.kbVectors = vectors
	return nil
}

// Retrieve maps free text to the top-K clauses plus a confidence
// signal. Upstream failures never propagate: they degrade to an empty
// or flagged result per the error taxonomy.
func (e *RetrievalEngine) Retrieve(ctx context.Context, text string) models.RetrievalResult {
	if e.store == nil || e.store.Len() == 0 || len(e.kbVectors) == 0 {
		return models.RetrievalResult{Clauses: []models.Clause{}, Confidence: 0, Failed: true}
	}

	queryVec, err := e.encoder.Encode(ctx, text)
	if err != nil {
		log.Printf("Warning: query embedding failed: %v", err)
		return models.RetrievalResult{Clauses: []models.Clause{}, Confidence: 0, Failed: true}
	}

	ranked, confidence := e.rank(queryVec)

	// Strong internal match: KB-only result
	if confidence >= e.threshold || e.searcher == nil {
		return models.RetrievalResult{
			Clauses:    e.take(ranked),
			Confidence: confidence,
			Failed:     confidence < failureFloor,
		}
	}

	// Fallback path: external search, then query expansion
	query := strings.ReplaceAll(text, "\n", " ") + webQuerySuffix
	snippets, err := e.searcher.Search(ctx, query)
	if err != nil {
		log.Printf("Warning: web fallback search failed: %v", err)
		snippets = nil
	}

	if len(snippets) == 0 {
		// Web yielded nothing: original ranking, flagged as failed
		return models.RetrievalResult{
			Clauses:    e.take(ranked),
			Confidence: confidence,
			Failed:     true,
		}
	}

	excerpt := snippets[0]
	if len(excerpt) > snippetExcerptLen {
		excerpt = excerpt[:snippetExcerptLen]
	}

	expandedVec, err := e.encoder.Encode(ctx, text+" "+excerpt)
	if err != nil {
		log.Printf("Warning: expanded query embedding failed: %v", err)
		return models.RetrievalResult{
			Clauses:      e.take(ranked),
			Confidence:   confidence,
			UsedFallback: true,
			Failed:       true,
		}
	}

	expandedRank, expandedConfidence := e.rank(expandedVec)
	if expandedConfidence < confidence {
		expandedConfidence = confidence
	}

	return models.RetrievalResult{
		Clauses:      e.take(expandedRank),
		Confidence:   expandedConfidence,
		UsedFallback: true,
		Failed:       expandedConfidence < failureFloor,
	}
}

// rank scores every KB clause against the query vector and returns
// indices in deterministic descending score order, ties broken by
// original KB order. Confidence is the best score clamped to [0,1].
func (e *RetrievalEngine) rank(queryVec []float64) ([]int, float64) {
	scores := make([]float64, len(e.kbVectors))
	for i, vec := range e.kbVectors {
		scores[i] = embedding.CosineSimilarity(queryVec, vec)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	best := 0.0
	if len(order) > 0 {
		best = scores[order[0]]
	}
	if best < 0 {
		best = 0
	} else if best > 1 {
		best = 1
	}

	return order, best
}

// take materializes the top-K clauses for a ranking
func (e *RetrievalEngine) take(order []int) []models.Clause {
	clauses := e.store.Clauses()
	k := e.topK
	if k > len(order) {
		k = len(order)
	}
	out := make([]models.Clause, 0, k)
	for _, idx := range order[:k] {
		out = append(out, clauses[idx])
	}
	return out
}
