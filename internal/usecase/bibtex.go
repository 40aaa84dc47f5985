package usecase

import (
	"fmt"
	"strings"

	"PaperRAG/internal/domain"
)

// Bibtex renders a citation record for a feed entry. The citation key is
// the last path segment of the entry identifier; the year is the first
// four characters of the published timestamp, or a placeholder.
func Bibtex(entry domain.FeedEntry) string {
	key := entry.LastIDSegment()

	authors := "Unknown"
	if len(entry.Authors) > 0 {
		authors = strings.Join(entry.Authors, ", ")
	}

	title := strings.TrimSpace(strings.ReplaceAll(entry.Title, "\n", " "))

	year := "????"
	if len(entry.Published) >= 4 {
		year = entry.Published[:4]
	}

	return fmt.Sprintf("@article{%s,\n  title={ %s },\n  author={ %s },\n  year={ %s },\n  url={ %s }\n}",
		key, title, authors, year, entry.ID)
}

// AuthorList renders the comma-separated author string used in results.
func AuthorList(entry domain.FeedEntry) string {
	if len(entry.Authors) == 0 {
		return "Unknown"
	}
	return strings.Join(entry.Authors, ", ")
}
