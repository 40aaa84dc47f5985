package usecase

import (
	"strings"
	"testing"
)

func TestDegradedSummaryPrefersAbstract(t *testing.T) {
	t.Parallel()

	text := "Deep Residual Learning for Image Recognition\n" +
		"Kaiming He, Xiangyu Zhang\n\n" +
		"Abstract: Deeper neural networks are more difficult to train.\n" +
		"We present a residual learning framework.\n\n" +
		"1. Introduction\nDeep networks...\n"

	got := degradedSummary(text)
	if !strings.HasPrefix(got, degradedMarker) {
		t.Fatalf("missing marker: %q", got)
	}
	if !strings.Contains(got, "Deeper neural networks are more difficult to train.") {
		t.Errorf("missing first abstract line: %q", got)
	}
	if !strings.Contains(got, "We present a residual learning framework.") {
		t.Errorf("missing second abstract line: %q", got)
	}
	if strings.Contains(got, "Introduction") {
		t.Errorf("excerpt ran past the abstract: %q", got)
	}
}

func TestDegradedSummaryFallsBackToLeadingLines(t *testing.T) {
	t.Parallel()

	text := "short\n" +
		"This opening sentence is long enough to count as substantial text.\n" +
		"tiny\n" +
		"Another substantial line that should appear in the excerpt as well.\n"

	got := degradedSummary(text)
	if !strings.Contains(got, "This opening sentence is long enough") {
		t.Errorf("missing first substantial line: %q", got)
	}
	if strings.Contains(got, "tiny") {
		t.Errorf("short line leaked into excerpt: %q", got)
	}
}

func TestDegradedSummaryCapsLength(t *testing.T) {
	t.Parallel()

	text := "Abstract: " + strings.Repeat("word ", 1000)
	got := degradedSummary(text)
	if len(got) > len(degradedMarker)+30+excerptMaxLen+len("...") {
		t.Fatalf("excerpt not capped: %d bytes", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("capped excerpt missing ellipsis: %q", got)
	}
}

func TestDegradedSummaryEmptyText(t *testing.T) {
	t.Parallel()

	if got := degradedSummary(""); got != degradedMarker {
		t.Errorf("unexpected empty-text summary: %q", got)
	}
}

func TestGuessTitle(t *testing.T) {
	t.Parallel()

	t.Run("quoted line", func(t *testing.T) {
		text := "preprint server header\n\"Scaling Laws for Neural Language Models\"\nauthors follow\n"
		if got := guessTitle(text); got != "Scaling Laws for Neural Language Models" {
			t.Errorf("unexpected title: %q", got)
		}
	})

	t.Run("title-cased line", func(t *testing.T) {
		text := "arXiv:2301.00001\nDeep Residual Learning for Image Recognition\nthe authors then explain their approach in lowercase prose\n"
		if got := guessTitle(text); got != "Deep Residual Learning for Image Recognition" {
			t.Errorf("unexpected title: %q", got)
		}
	})

	t.Run("no candidate", func(t *testing.T) {
		text := "just some lowercase prose without any heading that would qualify\n"
		if got := guessTitle(text); got != "" {
			t.Errorf("expected no title, got %q", got)
		}
	})

	t.Run("scans only the top of the document", func(t *testing.T) {
		text := strings.Repeat("lowercase filler line here\n", titleScanLines) +
			"A Late Title Should Not Be Found Here\n"
		if got := guessTitle(text); got != "" {
			t.Errorf("expected no title, got %q", got)
		}
	})
}
