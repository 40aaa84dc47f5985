package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"PaperRAG/internal/domain"
	"PaperRAG/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Feed       ports.FeedSource
	Fetcher    ports.Fetcher
	Extractor  ports.Extractor
	Summarizer ports.Summarizer
	Ledger     ports.UsageLedger
	Sessions   ports.SessionStore
	Retriever  ports.Retriever
	Mirror     ports.DocumentMirror
	Scraper    ports.MetadataScraper
	Logger     *slog.Logger

	// ArxivBaseURL derives fallback PDF links from entry identifiers.
	ArxivBaseURL string
	MaxResults   int
	MaxChunkLen  int
}

// Pipeline implements the paper-summarization workflow: search the feed,
// skip used entries, download and extract the PDF, summarize, record
// usage. Stages within one request are strictly sequential; failures of a
// single candidate entry are absorbed and the next candidate is tried.
type Pipeline struct {
	feed       ports.FeedSource
	fetcher    ports.Fetcher
	extractor  ports.Extractor
	summarizer ports.Summarizer
	ledger     ports.UsageLedger
	sessions   ports.SessionStore
	retriever  ports.Retriever
	mirror     ports.DocumentMirror
	scraper    ports.MetadataScraper
	logger     *slog.Logger

	arxivBaseURL string
	maxResults   int
	maxChunkLen  int
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.MaxResults <= 0 {
		deps.MaxResults = 100
	}

	return &Pipeline{
		feed:         deps.Feed,
		fetcher:      deps.Fetcher,
		extractor:    deps.Extractor,
		summarizer:   deps.Summarizer,
		ledger:       deps.Ledger,
		sessions:     deps.Sessions,
		retriever:    deps.Retriever,
		mirror:       deps.Mirror,
		scraper:      deps.Scraper,
		logger:       deps.Logger,
		arxivBaseURL: strings.TrimSuffix(deps.ArxivBaseURL, "/"),
		maxResults:   deps.MaxResults,
		maxChunkLen:  deps.MaxChunkLen,
	}
}

// SearchAndSummarize finds the first not-yet-used paper matching the
// query and/or category, downloads and summarizes it, and records its
// identifier in the ledger.
func (p *Pipeline) SearchAndSummarize(ctx context.Context, query, category string) (domain.SummaryResult, error) {
	used, err := p.ledger.Load()
	if err != nil {
		return domain.SummaryResult{}, fmt.Errorf("load usage ledger: %w", err)
	}

	entries, err := p.feed.Search(ctx, feedQuery(query, category), 0, p.maxResults)
	if err != nil {
		return domain.SummaryResult{}, err
	}

	for _, entry := range entries {
		if used[entry.ID] {
			continue
		}

		text, ok := p.downloadAndExtract(ctx, entry)
		if !ok {
			continue
		}

		summary, degraded := p.summarizeOrDegrade(ctx, text)

		if err := p.ledger.Record(entry.ID); err != nil {
			p.warn("recording used paper failed", "id", entry.ID, "error", err)
		}

		result := domain.SummaryResult{
			Title:     entry.Title,
			Authors:   AuthorList(entry),
			Published: publishedOrUnknown(entry),
			PDFLink:   p.resolvePDFLink(entry),
			Bibtex:    Bibtex(entry),
			Summary:   summary,
			Degraded:  degraded,
		}
		p.mirrorResult(ctx, entry.ID, result)
		return result, nil
	}

	return domain.SummaryResult{}, domain.ErrNoUsablePapers
}

// downloadAndExtract runs the per-candidate fetch and extraction stages.
// Any failure is logged and reported as a skip, never as a request error.
func (p *Pipeline) downloadAndExtract(ctx context.Context, entry domain.FeedEntry) (string, bool) {
	body, err := p.fetcher.FetchPDF(ctx, entry.PDFLink(), p.fallbackPDFURL(entry.ID))
	if err != nil {
		p.warn("pdf download failed, trying next candidate", "id", entry.ID, "error", err)
		return "", false
	}

	text, err := p.extractor.Extract(body)
	if err != nil {
		p.warn("pdf extraction failed, trying next candidate", "id", entry.ID, "error", err)
		return "", false
	}
	return text, true
}

// summarizeOrDegrade calls the language-model collaborator and falls back
// to a marked local excerpt when it is unavailable.
func (p *Pipeline) summarizeOrDegrade(ctx context.Context, text string) (string, bool) {
	summary, err := p.summarizer.Summarize(ctx, text)
	if err == nil {
		return summary, false
	}
	if !errors.Is(err, domain.ErrSummarizationUnavailable) {
		p.warn("summarizer returned unexpected error", "error", err)
	} else {
		p.warn("summarizer unavailable, degrading to excerpt", "error", err)
	}
	return degradedSummary(text), true
}

func (p *Pipeline) resolvePDFLink(entry domain.FeedEntry) string {
	if link := entry.PDFLink(); link != "" {
		return link
	}
	return p.fallbackPDFURL(entry.ID)
}

func (p *Pipeline) fallbackPDFURL(entryID string) string {
	if p.arxivBaseURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/pdf/%s.pdf", p.arxivBaseURL, domain.LastPathSegment(entryID))
}

func (p *Pipeline) mirrorResult(ctx context.Context, entryID string, result domain.SummaryResult) {
	if p.mirror == nil {
		return
	}
	if err := p.mirror.Upsert(ctx, entryID, result); err != nil {
		p.warn("document mirror upsert failed", "id", entryID, "error", err)
	}
}

// feedQuery builds the arXiv search term: "all:" for keyword searches,
// "cat:" for category browsing, both joined with AND when combined.
func feedQuery(query, category string) string {
	switch {
	case query != "" && category != "":
		return fmt.Sprintf("all:%s AND cat:%s", query, category)
	case category != "":
		return "cat:" + category
	default:
		return "all:" + query
	}
}

func publishedOrUnknown(entry domain.FeedEntry) string {
	if entry.Published == "" {
		return "Unknown"
	}
	return entry.Published
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
