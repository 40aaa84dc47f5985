package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"PaperRAG/internal/domain"
	"PaperRAG/internal/ports"
)

// Client queries the arXiv Atom API and normalizes entries at the
// boundary: nothing downstream ever sees the wire representation.
type Client struct {
	apiURL  string
	fetcher ports.Fetcher
	logger  *slog.Logger
}

var _ ports.FeedSource = (*Client)(nil)

// NewClient wires the API endpoint with the fallback fetcher.
func NewClient(apiURL string, fetcher ports.Fetcher, logger *slog.Logger) *Client {
	return &Client{apiURL: apiURL, fetcher: fetcher, logger: logger}
}

// Search runs one feed query and returns entries in feed order.
func (c *Client) Search(ctx context.Context, query string, start, maxResults int) ([]domain.FeedEntry, error) {
	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", strconv.Itoa(start))
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("sortBy", "relevance")
	params.Set("sortOrder", "descending")

	feedURL := c.apiURL + "?" + params.Encode()
	if c.logger != nil {
		c.logger.Debug("querying feed", "url", feedURL)
	}

	body, err := c.fetcher.Fetch(ctx, feedURL, map[string]string{"Accept": "application/atom+xml"})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFeedUnavailable, err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: parse feed: %v", domain.ErrFeedUnavailable, err)
	}

	entries := make([]domain.FeedEntry, 0, len(feed.Entries))
	for _, e := range feed.Entries {
		entries = append(entries, normalizeEntry(e))
	}
	return entries, nil
}

// Atom wire structures for the arXiv API.

type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Links      []atomLink     `xml:"link"`
	Categories []atomCategory `xml:"category"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

// normalizeEntry converts one wire entry into the internal representation.
func normalizeEntry(e atomEntry) domain.FeedEntry {
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		authors = append(authors, strings.TrimSpace(a.Name))
	}

	links := make([]domain.Link, 0, len(e.Links))
	for _, l := range e.Links {
		links = append(links, domain.Link{Href: l.Href, Title: l.Title, Type: l.Type})
	}

	tags := make([]string, 0, len(e.Categories))
	for _, c := range e.Categories {
		tags = append(tags, strings.TrimSpace(c.Term))
	}

	return domain.FeedEntry{
		ID:        strings.TrimSpace(e.ID),
		Title:     strings.TrimSpace(e.Title),
		Authors:   authors,
		Published: strings.TrimSpace(e.Published),
		Links:     links,
		Summary:   strings.TrimSpace(e.Summary),
		Tags:      tags,
	}
}
