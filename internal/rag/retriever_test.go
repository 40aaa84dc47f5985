package rag_test

import (
	"testing"

	"PaperRAG/internal/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubstringRetriever_Retrieve(t *testing.T) {
	retriever := rag.NewSubstringRetriever()

	t.Run("returns only matching chunks in order", func(t *testing.T) {
		chunks := []string{
			"a neural network is a function approximator",
			"this section covers an unrelated topic",
			"deep neural network training dynamics",
		}

		got := retriever.Retrieve(chunks, "neural network")
		require.Len(t, got, 2)
		assert.Equal(t, chunks[0], got[0])
		assert.Equal(t, chunks[2], got[1])
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		chunks := []string{"Transformers Use Attention"}
		got := retriever.Retrieve(chunks, "transformers use")
		assert.Equal(t, chunks, got)
	})

	t.Run("falls back to first chunk when nothing matches", func(t *testing.T) {
		chunks := []string{"first chunk", "second chunk"}
		got := retriever.Retrieve(chunks, "quantum entanglement")
		assert.Equal(t, []string{"first chunk"}, got)
	})

	t.Run("empty question matches every chunk", func(t *testing.T) {
		chunks := []string{"one", "two", "three"}
		got := retriever.Retrieve(chunks, "")
		assert.Equal(t, chunks, got)
	})

	t.Run("always non-empty when chunks exist", func(t *testing.T) {
		chunks := []string{"only chunk"}
		for _, q := range []string{"", "miss", "ONLY", "only chunk and more"} {
			assert.NotEmpty(t, retriever.Retrieve(chunks, q), "question %q", q)
		}
	})

	t.Run("nil for empty chunk sequence", func(t *testing.T) {
		assert.Nil(t, retriever.Retrieve(nil, "anything"))
	})
}
