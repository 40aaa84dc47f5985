package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"PaperRAG/internal/domain"
	"PaperRAG/internal/rag"
)

// lowTextThreshold rejects ingestion of documents that extract to almost
// nothing; those are most likely image-based scans.
const lowTextThreshold = 100

const untitledFallback = "Untitled document"

var arxivIDExpr = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/([0-9a-z.\-]+?)(?:\.pdf)?$`)

// IngestUpload builds a retrieval session from uploaded PDF bytes.
func (p *Pipeline) IngestUpload(ctx context.Context, data []byte) (domain.IngestResult, error) {
	sessionID := p.sessions.Create()
	p.sessions.SetProgress(sessionID, "Uploading PDF")
	p.debug("ingesting uploaded pdf", "session_id", sessionID, "bytes", len(data))

	result, _, err := p.buildSession(sessionID, data)
	return result, err
}

// IngestURL downloads a PDF through the fallback ladder and builds a
// retrieval session from it.
func (p *Pipeline) IngestURL(ctx context.Context, pdfURL string) (domain.IngestResult, string, error) {
	sessionID := p.sessions.Create()
	p.sessions.SetProgress(sessionID, "Downloading PDF (0%) ...")
	p.debug("ingesting pdf from url", "session_id", sessionID, "url", pdfURL)

	fallback := ""
	arxivID := extractArxivID(pdfURL)
	if arxivID != "" {
		fallback = p.fallbackPDFURL(arxivID)
	}

	data, err := p.fetcher.FetchPDF(ctx, pdfURL, fallback)
	if err != nil {
		p.sessions.SetProgress(sessionID, "Failed: "+err.Error())
		return domain.IngestResult{SessionID: sessionID}, "", err
	}
	p.sessions.SetProgress(sessionID, "Downloading PDF (100%) ...")

	result, text, err := p.buildSession(sessionID, data)
	if err != nil {
		return result, "", err
	}

	title := p.resolveTitle(ctx, arxivID, text)
	return result, title, nil
}

// buildSession runs extraction and chunking and finalizes the session.
// It also hands back the extracted text for title heuristics.
func (p *Pipeline) buildSession(sessionID string, data []byte) (domain.IngestResult, string, error) {
	p.sessions.SetProgress(sessionID, "Extracting and chunking text from PDF")

	text, err := p.extractor.Extract(data)
	if err != nil {
		p.sessions.SetProgress(sessionID, "Failed: "+err.Error())
		return domain.IngestResult{SessionID: sessionID}, "", err
	}

	if len(strings.TrimSpace(text)) < lowTextThreshold {
		msg := "very little text could be extracted; the PDF may be image-based"
		p.sessions.SetProgress(sessionID, "Failed: "+msg)
		return domain.IngestResult{SessionID: sessionID}, "", fmt.Errorf("%w: %s", domain.ErrPDFNoExtractableText, msg)
	}

	chunks := rag.SplitChunks(text, p.maxChunkLen)
	if err := p.sessions.SetChunks(sessionID, chunks); err != nil {
		p.sessions.SetProgress(sessionID, "Failed: "+err.Error())
		return domain.IngestResult{SessionID: sessionID}, "", err
	}

	p.sessions.SetProgress(sessionID, fmt.Sprintf("Completed: %d chunks", len(chunks)))
	return domain.IngestResult{SessionID: sessionID, Chunks: len(chunks)}, text, nil
}

// Progress reports the session's ingestion narrative.
func (p *Pipeline) Progress(sessionID string) string {
	return p.sessions.GetProgress(sessionID)
}

// resolveTitle applies the best-effort heuristics for direct-URL
// ingestion: scraped metadata title, then a title-looking line from the
// first page, then the identifier derived from the URL, then a literal
// fallback.
func (p *Pipeline) resolveTitle(ctx context.Context, arxivID, text string) string {
	if arxivID != "" && p.scraper != nil {
		if title, _, err := p.scraper.Lookup(ctx, arxivID); err == nil && title != "" {
			return title
		} else if err != nil {
			p.debug("metadata lookup failed", "id", arxivID, "error", err)
		}
	}

	if title := guessTitle(text); title != "" {
		return title
	}

	if arxivID != "" {
		return arxivID
	}
	return untitledFallback
}

// extractArxivID pulls a bare identifier out of an abs/pdf URL, or ""
// when the URL does not point at arXiv.
func extractArxivID(pdfURL string) string {
	if m := arxivIDExpr.FindStringSubmatch(strings.TrimSpace(pdfURL)); len(m) > 1 {
		return m[1]
	}
	return ""
}
