package usecase

import (
	"strings"
	"unicode"
)

const (
	// degradedMarker prefixes every heuristic fallback summary.
	degradedMarker = "AI summary unavailable."

	excerptMaxLen      = 1200
	substantialLineLen = 40
	titleScanLines     = 30
)

// degradedSummary builds a local excerpt when the language-model
// summarizer is down: the abstract block when one is present, otherwise
// the first substantial lines, capped in length and explicitly marked.
func degradedSummary(text string) string {
	excerpt := abstractBlock(text)
	if excerpt == "" {
		excerpt = leadingLines(text)
	}
	if len(excerpt) > excerptMaxLen {
		excerpt = excerpt[:excerptMaxLen] + "..."
	}
	if excerpt == "" {
		return degradedMarker
	}
	return degradedMarker + " Excerpt from the paper:\n\n" + excerpt
}

// abstractBlock returns the lines following an "Abstract" heading, up to
// the first blank line or the length cap.
func abstractBlock(text string) string {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "abstract") {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}

	var block []string
	// The heading line itself may carry text after the word.
	if rest := strings.TrimSpace(trimAbstractHeading(lines[start])); rest != "" {
		block = append(block, rest)
	}
	for _, line := range lines[start+1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			break
		}
		block = append(block, trimmed)
		if totalLen(block) > excerptMaxLen {
			break
		}
	}
	return strings.Join(block, " ")
}

func trimAbstractHeading(line string) string {
	trimmed := strings.TrimSpace(line)
	for _, prefix := range []string{"Abstract:", "Abstract.", "Abstract—", "ABSTRACT", "Abstract"} {
		if strings.HasPrefix(trimmed, prefix) {
			return trimmed[len(prefix):]
		}
	}
	return trimmed
}

// leadingLines collects the first substantial lines of the document.
func leadingLines(text string) string {
	var block []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) < substantialLineLen {
			continue
		}
		block = append(block, trimmed)
		if totalLen(block) > excerptMaxLen {
			break
		}
	}
	return strings.Join(block, " ")
}

func totalLen(lines []string) int {
	n := 0
	for _, l := range lines {
		n += len(l) + 1
	}
	return n
}

// guessTitle scans the first lines of extracted text for something that
// reads like a paper title: a quoted line, or a substantial line whose
// words are mostly capitalized. Returns "" when nothing qualifies.
func guessTitle(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > titleScanLines {
		lines = lines[:titleScanLines]
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
			if inner := strings.TrimSpace(trimmed[1 : len(trimmed)-1]); len(inner) >= 12 {
				return inner
			}
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if looksLikeTitle(trimmed) {
			return trimmed
		}
	}
	return ""
}

func looksLikeTitle(line string) bool {
	if len(line) < 12 || len(line) > 150 {
		return false
	}
	words := strings.Fields(line)
	if len(words) < 3 {
		return false
	}

	capitalized := 0
	for _, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) || unicode.IsDigit(r) {
			capitalized++
		}
	}
	// Mostly-capitalized words mark a title-cased heading.
	return capitalized*10 >= len(words)*7
}
