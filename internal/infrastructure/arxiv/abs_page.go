package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"PaperRAG/internal/ports"
)

var whitespaceExpr = regexp.MustCompile(`\s+`)

// AbsPageScraper pulls best-effort title and abstract from a paper's
// abstract page. Used when ingestion starts from a bare PDF URL and no
// feed entry metadata exists.
type AbsPageScraper struct {
	baseURL   string
	client    *http.Client
	userAgent string
}

var _ ports.MetadataScraper = (*AbsPageScraper)(nil)

// NewAbsPageScraper wires an HTTP client; a nil client gets a default.
func NewAbsPageScraper(baseURL string, client *http.Client, userAgent string) *AbsPageScraper {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &AbsPageScraper{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    client,
		userAgent: userAgent,
	}
}

// Lookup fetches and parses https://<base>/abs/<id>.
func (s *AbsPageScraper) Lookup(ctx context.Context, arxivID string) (string, string, error) {
	pageURL := fmt.Sprintf("%s/abs/%s", s.baseURL, arxivID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("build request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("request abs page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("abs page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("parse abs page: %w", err)
	}

	title := doc.Find("h1.title").First().Text()
	title = strings.TrimPrefix(strings.TrimSpace(title), "Title:")
	title = collapseWhitespace(title)

	abstract := doc.Find("blockquote.abstract").First().Text()
	abstract = strings.TrimPrefix(strings.TrimSpace(abstract), "Abstract:")
	abstract = collapseWhitespace(abstract)

	if title == "" && abstract == "" {
		return "", "", fmt.Errorf("no metadata found on abs page for %s", arxivID)
	}
	return title, abstract, nil
}

func collapseWhitespace(s string) string {
	return whitespaceExpr.ReplaceAllString(strings.TrimSpace(s), " ")
}
