package pdfext

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"

	"PaperRAG/internal/domain"
	"PaperRAG/internal/ports"
)

const (
	// minPDFSize rejects blobs too small to be a real paper.
	minPDFSize = 1000
	// lowTextThreshold marks likely image-based scans.
	lowTextThreshold = 100
)

var pdfSignature = []byte("%PDF")

// Extractor validates PDF blobs and pulls per-page text. Unreadable pages
// are logged and skipped; they never abort the whole document.
type Extractor struct {
	logger *slog.Logger
}

var _ ports.Extractor = (*Extractor)(nil)

// NewExtractor wires the page-skip logger.
func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// Extract runs the cheapest checks first, then walks pages in order,
// appending a newline after each page's text.
func (e *Extractor) Extract(data []byte) (string, error) {
	if len(data) < minPDFSize {
		return "", fmt.Errorf("%w: %d bytes", domain.ErrPDFTooSmall, len(data))
	}
	if !bytes.HasPrefix(data, pdfSignature) {
		return "", domain.ErrPDFBadHeader
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return "", domain.ErrPDFNoPages
	}

	var text strings.Builder
	for i := 1; i <= numPages; i++ {
		pageText, err := extractPage(reader, i)
		if err != nil {
			e.warn("skipping unreadable page", "page", i, "error", err)
			continue
		}
		if pageText == "" {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	trimmed := strings.TrimSpace(text.String())
	if trimmed == "" {
		return "", domain.ErrPDFNoExtractableText
	}
	if len(trimmed) < lowTextThreshold {
		e.warn("very little text extracted, document may be image-based", "chars", len(trimmed))
	}

	return text.String(), nil
}

// extractPage reads one page's text rows. The pdf library panics on some
// malformed content streams; that is converted into a page-level error so
// the caller can skip the page.
func extractPage(reader *pdf.Reader, pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", pageNum, r)
		}
	}()

	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return "", nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("page %d: %w", pageNum, err)
	}

	var sb strings.Builder
	for _, row := range rows {
		var words []string
		for _, word := range row.Content {
			words = append(words, word.S)
		}
		sb.WriteString(strings.Join(words, " "))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n"), nil
}

func (e *Extractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
