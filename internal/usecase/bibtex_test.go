package usecase

import (
	"strings"
	"testing"

	"PaperRAG/internal/domain"
)

func TestBibtex(t *testing.T) {
	t.Parallel()

	entry := domain.FeedEntry{
		ID:        "http://arxiv.org/abs/1706.03762v5",
		Title:     "Attention Is All\n You Need",
		Authors:   []string{"A. Vaswani", "N. Shazeer"},
		Published: "2017-06-12T17:57:34Z",
	}

	want := "@article{1706.03762v5,\n" +
		"  title={ Attention Is All  You Need },\n" +
		"  author={ A. Vaswani, N. Shazeer },\n" +
		"  year={ 2017 },\n" +
		"  url={ http://arxiv.org/abs/1706.03762v5 }\n" +
		"}"
	if got := Bibtex(entry); got != want {
		t.Errorf("unexpected bibtex:\n%s\nwant:\n%s", got, want)
	}
}

func TestBibtexMissingFields(t *testing.T) {
	t.Parallel()

	entry := domain.FeedEntry{ID: "2301.00001", Title: "Short"}

	got := Bibtex(entry)
	if want := "author={ Unknown }"; !strings.Contains(got, want) {
		t.Errorf("missing %q in %q", want, got)
	}
	if want := "year={ ???? }"; !strings.Contains(got, want) {
		t.Errorf("missing %q in %q", want, got)
	}
	if want := "@article{2301.00001,"; !strings.Contains(got, want) {
		t.Errorf("missing %q in %q", want, got)
	}
}

func TestAuthorList(t *testing.T) {
	t.Parallel()

	if got := AuthorList(domain.FeedEntry{}); got != "Unknown" {
		t.Errorf("unexpected empty-author list: %q", got)
	}
	entry := domain.FeedEntry{Authors: []string{"A", "B", "C"}}
	if got := AuthorList(entry); got != "A, B, C" {
		t.Errorf("unexpected author list: %q", got)
	}
}
