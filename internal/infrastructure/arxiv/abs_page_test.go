package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAbsPageLookup(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/abs/2301.00001" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`
		<html><body>
		  <h1 class="title mathjax"><span class="descriptor">Title:</span>A Study of
  Whitespace</h1>
		  <blockquote class="abstract mathjax">
		    <span class="descriptor">Abstract:</span>We examine   spacing.
		  </blockquote>
		</body></html>`))
	}))
	defer server.Close()

	scraper := NewAbsPageScraper(server.URL, server.Client(), "test-agent")

	title, abstract, err := scraper.Lookup(context.Background(), "2301.00001")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if title != "A Study of Whitespace" {
		t.Fatalf("unexpected title: %q", title)
	}
	if abstract != "We examine spacing." {
		t.Fatalf("unexpected abstract: %q", abstract)
	}
}

func TestAbsPageLookupNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	scraper := NewAbsPageScraper(server.URL, server.Client(), "")
	if _, _, err := scraper.Lookup(context.Background(), "0000.00000"); err == nil {
		t.Fatal("expected error for missing abs page")
	}
}

func TestAbsPageLookupEmptyDocument(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	}))
	defer server.Close()

	scraper := NewAbsPageScraper(server.URL, server.Client(), "")
	if _, _, err := scraper.Lookup(context.Background(), "2301.00001"); err == nil {
		t.Fatal("expected error when no metadata is present")
	}
}
