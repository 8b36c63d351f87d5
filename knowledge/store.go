// Package knowledge owns the regulatory clause collection. The store
// is read-only after construction, so concurrent read access across
// scenarios is safe without synchronization.
package knowledge

import (
	"encoding/json"
	"fmt"
	"os"

	"regaudit-backend/models"
)

// Store holds the regulatory knowledge base for the process lifetime
type Store struct {
	clauses []models.Clause
	byID    map[string]models.Clause
}

// NewStore builds a store from a clause collection. Clause order is
// preserved; it is the retrieval tie-break order.
func NewStore(clauses []models.Clause) *Store {
	byID := make(map[string]models.Clause, len(clauses))
	for _, c := range clauses {
		byID[c.ClauseID] = c
	}
	return &Store{
		clauses: clauses,
		byID:    byID,
	}
}

// LoadFromJSON reads a clause collection from a JSON file
func LoadFromJSON(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}

	var clauses []models.Clause
	if err := json.Unmarshal(data, &clauses); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}

	return NewStore(clauses), nil
}

// Clauses returns the clause collection in load order
func (s *Store) Clauses() []models.Clause {
	return s.clauses
}

// Get looks up a clause by identifier
func (s *Store) Get(clauseID string) (models.Clause, bool) {
	c, ok := s.byID[clauseID]
	return c, ok
}

// Contains reports whether the store holds the given clause ID
func (s *Store) Contains(clauseID string) bool {
	_, ok := s.byID[clauseID]
	return ok
}

// Len returns the number of clauses
func (s *Store) Len() int {
	return len(s.clauses)
}

// EmbeddingTexts returns the text rendered for each clause in load
// order, for building the retrieval index
func (s *Store) EmbeddingTexts() []string {
	texts := make([]string, 0, len(s.clauses))
	for _, c := range s.clauses {
		texts = append(texts, c.EmbeddingText())
	}
	return texts
}
