package domain

import "errors"

// Transport and pipeline failures surfaced to callers. Per-candidate
// failures are absorbed by the pipeline; these mark whole-request outcomes.
var (
	// ErrFetchFailed means every transport strategy across every retry
	// attempt was exhausted.
	ErrFetchFailed = errors.New("fetch failed after all strategies and retries")

	// ErrFeedUnavailable means the arXiv query feed could not be reached.
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrNoUsablePapers means the feed returned no entry that could be
	// downloaded, extracted and summarized.
	ErrNoUsablePapers = errors.New("no usable papers found")

	// ErrSummarizationUnavailable signals the language-model collaborator
	// failed; callers degrade to a heuristic excerpt instead of failing.
	ErrSummarizationUnavailable = errors.New("summarization unavailable")

	// ErrSessionNotFound means the session id is unknown to the store.
	ErrSessionNotFound = errors.New("session not found")
)

// PDF validation failures, ordered cheapest-check-first in the extractor.
var (
	ErrPDFTooSmall          = errors.New("pdf too small")
	ErrPDFBadHeader         = errors.New("missing pdf signature")
	ErrPDFNoPages           = errors.New("pdf declares zero pages")
	ErrPDFNoExtractableText = errors.New("no extractable text in pdf")
)

// IsInvalidPDF reports whether err is any of the extractor validation
// failures.
func IsInvalidPDF(err error) bool {
	return errors.Is(err, ErrPDFTooSmall) ||
		errors.Is(err, ErrPDFBadHeader) ||
		errors.Is(err, ErrPDFNoPages) ||
		errors.Is(err, ErrPDFNoExtractableText)
}
