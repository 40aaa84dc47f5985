package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"PaperRAG/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(retries int) *Client {
	c := NewClient(Options{
		Timeout:    2 * time.Second,
		Retries:    retries,
		RetryDelay: time.Millisecond,
		UserAgent:  "test-agent",
	}, nil)
	c.sleep = func(time.Duration) {}
	return c
}

func TestFetch_Success(t *testing.T) {
	var gotAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent.Store(r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("feed body"))
	}))
	defer server.Close()

	c := newTestClient(3)
	body, err := c.Fetch(context.Background(), server.URL, map[string]string{"Accept": "application/atom+xml"})
	require.NoError(t, err)
	assert.Equal(t, "feed body", string(body))
	assert.Equal(t, "test-agent", gotAgent.Load())
}

func TestFetch_ExhaustsRetries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	retries := 3
	c := newTestClient(retries)

	var slept int
	c.sleep = func(time.Duration) { slept++ }

	_, err := c.Fetch(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFetchFailed))

	// http URL: the downgrade rung rejects immediately, the other three
	// rungs hit the server on every attempt.
	assert.Equal(t, int32(retries*3), hits.Load())
	assert.Equal(t, retries-1, slept)
}

func TestFetch_HTTPSDowngrade(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("downgraded ok"))
	}))
	defer server.Close()

	// An https URL pointing at a plain-http listener fails the first three
	// rungs (TLS handshake) and succeeds on the http-downgrade rung.
	httpsURL := "https://" + strings.TrimPrefix(server.URL, "http://")

	c := newTestClient(2)
	body, err := c.Fetch(context.Background(), httpsURL, nil)
	require.NoError(t, err)
	assert.Equal(t, "downgraded ok", string(body))
}

func TestFetchPDF_FallbackURL(t *testing.T) {
	pdfBody := append([]byte("%PDF-1.4\n"), make([]byte, 2048)...)

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(pdfBody)
	}))
	defer fallback.Close()

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer primary.Close()

	c := newTestClient(1)
	body, err := c.FetchPDF(context.Background(), primary.URL, fallback.URL)
	require.NoError(t, err)
	assert.Equal(t, pdfBody, body)
}

func TestFetchPDF_RejectsSmallNonPDFBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>not found</html>"))
	}))
	defer server.Close()

	c := newTestClient(1)
	_, err := c.FetchPDF(context.Background(), server.URL, server.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFetchFailed))
}

func TestFetchPDF_AcceptsPDFContentType(t *testing.T) {
	// Tiny body is fine as long as the server says it is a PDF.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 tiny"))
	}))
	defer server.Close()

	c := newTestClient(1)
	body, err := c.FetchPDF(context.Background(), server.URL, "")
	require.NoError(t, err)
	assert.Contains(t, string(body), "%PDF")
}

func TestFallbackPDFURL(t *testing.T) {
	got := FallbackPDFURL("https://arxiv.org", "http://arxiv.org/abs/2301.00001v2")
	assert.Equal(t, "https://arxiv.org/pdf/2301.00001v2.pdf", got)

	got = FallbackPDFURL("https://arxiv.org/", "2301.00001")
	assert.Equal(t, "https://arxiv.org/pdf/2301.00001.pdf", got)
}
