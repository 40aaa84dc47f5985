package ports

import (
	"context"

	"PaperRAG/internal/domain"
)

// FeedSource queries the paper index and returns normalized entries.
type FeedSource interface {
	Search(ctx context.Context, query string, start, maxResults int) ([]domain.FeedEntry, error)
}

// Fetcher downloads remote resources through the layered fallback
// transport strategies.
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error)
	FetchPDF(ctx context.Context, primaryURL, fallbackURL string) ([]byte, error)
}

// Extractor validates a byte blob as a PDF and extracts per-page text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Summarizer is the language-model collaborator. Summarize condenses a
// full paper text; Answer responds to an already-assembled prompt.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Answer(ctx context.Context, prompt string) (string, error)
}

// UsageLedger records paper identifiers that were already summarized so
// they are never selected again.
type UsageLedger interface {
	Load() (map[string]bool, error)
	Record(id string) error
}

// SessionStore keeps per-session chunk sequences and progress narratives.
type SessionStore interface {
	Create() string
	SetChunks(sessionID string, chunks []string) error
	GetChunks(sessionID string) ([]string, error)
	SetProgress(sessionID, message string)
	GetProgress(sessionID string) string
}

// Retriever selects chunks relevant to a question. Implementations must
// return at least one chunk whenever chunks is non-empty.
type Retriever interface {
	Retrieve(chunks []string, question string) []string
}

// DocumentMirror upserts summary results into an external store on a
// best-effort basis; callers ignore its failures.
type DocumentMirror interface {
	Upsert(ctx context.Context, entryID string, result domain.SummaryResult) error
}

// MetadataScraper resolves best-effort paper metadata for a bare arXiv
// identifier, used when ingestion starts from a raw PDF URL.
type MetadataScraper interface {
	Lookup(ctx context.Context, arxivID string) (title, abstract string, err error)
}
