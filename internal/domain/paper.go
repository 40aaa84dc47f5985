package domain

// Link is a single alternate/related link attached to a feed entry.
type Link struct {
	Href  string
	Title string
	Type  string
}

// FeedEntry is the normalized form of one arXiv search result. All feed
// adapters convert their wire format into this type at the boundary.
type FeedEntry struct {
	ID        string
	Title     string
	Authors   []string
	Published string
	Links     []Link
	Summary   string
	Tags      []string
}

// PDFLink returns the entry's PDF download link, upgraded to https,
// or "" when the entry carries none.
func (e FeedEntry) PDFLink() string {
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			return forceHTTPS(l.Href)
		}
	}
	return ""
}

// LastIDSegment returns the final path segment of the entry identifier,
// e.g. "2301.00001v1" for "http://arxiv.org/abs/2301.00001v1".
func (e FeedEntry) LastIDSegment() string {
	return LastPathSegment(e.ID)
}

// LastPathSegment extracts the substring after the final '/'.
func LastPathSegment(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[i+1:]
		}
	}
	return s
}

func forceHTTPS(u string) string {
	const insecure = "http://"
	if len(u) > len(insecure) && u[:len(insecure)] == insecure {
		return "https://" + u[len(insecure):]
	}
	return u
}

// SummaryResult is the unit returned to callers after a paper has been
// fetched, extracted and summarized.
type SummaryResult struct {
	Title    string `json:"title"`
	Authors  string `json:"authors"`
	Published string `json:"published"`
	PDFLink  string `json:"pdf_link"`
	Bibtex   string `json:"bibtex"`
	Summary  string `json:"summary"`
	// Degraded marks a heuristic excerpt produced when the language-model
	// summarizer was unavailable.
	Degraded bool `json:"degraded,omitempty"`
}

// ChatReply carries both answer passes of a RAG chat turn.
type ChatReply struct {
	RAGReply string `json:"rag_reply"`
	GPTReply string `json:"gpt_reply"`
}

// IngestResult reports a newly created RAG session.
type IngestResult struct {
	SessionID string `json:"session_id"`
	Chunks    int    `json:"rag_chunks"`
}
