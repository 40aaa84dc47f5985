package rag

import (
	"strings"

	"PaperRAG/internal/ports"
)

// SubstringRetriever selects chunks by case-insensitive substring match of
// the full question against each chunk, preserving chunk order. When no
// chunk matches it falls back to the first chunk, so callers always get
// context when any chunks exist. Deliberately naive: no ranking, no
// embeddings; swap in another Retriever implementation for better recall.
type SubstringRetriever struct{}

var _ ports.Retriever = (*SubstringRetriever)(nil)

// NewSubstringRetriever returns the default retrieval strategy.
func NewSubstringRetriever() *SubstringRetriever {
	return &SubstringRetriever{}
}

// Retrieve implements ports.Retriever.
func (r *SubstringRetriever) Retrieve(chunks []string, question string) []string {
	if len(chunks) == 0 {
		return nil
	}

	needle := strings.ToLower(question)
	var relevant []string
	for _, chunk := range chunks {
		if strings.Contains(strings.ToLower(chunk), needle) {
			relevant = append(relevant, chunk)
		}
	}

	if len(relevant) == 0 {
		relevant = []string{chunks[0]}
	}

	return relevant
}
