package rag

import "strings"

// DefaultMaxChunkLen bounds chunk size in characters.
const DefaultMaxChunkLen = 2000

// SplitChunks partitions text into an ordered sequence of bounded-length
// chunks along line boundaries. A line is never split: if appending it
// would push the accumulator past maxLen, the accumulator is flushed and
// the line starts the next chunk, even when the line alone exceeds maxLen.
// Concatenating the result reproduces the input with newlines normalized
// to single '\n' separators. Empty input yields nil.
func SplitChunks(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxChunkLen
	}

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	if normalized == "" {
		return nil
	}

	var chunks []string
	var chunk strings.Builder

	for _, line := range strings.Split(normalized, "\n") {
		if chunk.Len() > 0 && chunk.Len()+len(line) > maxLen {
			chunks = append(chunks, chunk.String())
			chunk.Reset()
		}
		chunk.WriteString(line)
		chunk.WriteString("\n")
	}

	if chunk.Len() > 0 {
		chunks = append(chunks, chunk.String())
	}

	return chunks
}
