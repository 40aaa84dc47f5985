// Package pdftest builds minimal but structurally valid PDF documents for
// tests. Object byte offsets are tracked while writing so the xref table
// is correct by construction.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

const padTarget = 2100

// Build renders one text document; each element of pages becomes a page
// whose lines are drawn with the Helvetica base font. The output is padded
// past the extractor's minimum-size threshold.
func Build(pages [][]string) []byte {
	w := &writer{}
	w.raw("%PDF-1.4\n")

	numPages := len(pages)
	kids := make([]string, numPages)
	for i := range pages {
		// Page objects start at 3; each page owns a content stream object.
		kids[i] = fmt.Sprintf("%d 0 R", 3+2*i)
	}
	fontObj := 3 + 2*numPages

	w.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	w.object(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), numPages))

	for i, lines := range pages {
		pageObj := 3 + 2*i
		contentObj := pageObj + 1
		w.object(pageObj, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, contentObj))
		w.stream(contentObj, contentStream(lines))
	}

	w.object(fontObj, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	w.pad(padTarget)
	w.finish(fontObj + 1)
	return w.buf.Bytes()
}

// ZeroPages renders a well-formed document whose page tree is empty.
func ZeroPages() []byte {
	w := &writer{}
	w.raw("%PDF-1.4\n")
	w.object(1, "<< /Type /Catalog /Pages 2 0 R >>")
	w.object(2, "<< /Type /Pages /Kids [] /Count 0 >>")
	w.pad(padTarget)
	w.finish(3)
	return w.buf.Bytes()
}

func contentStream(lines []string) string {
	var sb strings.Builder
	sb.WriteString("BT /F1 12 Tf 72 720 Td\n")
	for i, line := range lines {
		if i > 0 {
			sb.WriteString("0 -14 Td\n")
		}
		sb.WriteString("(" + escape(line) + ") Tj\n")
	}
	sb.WriteString("ET\n")
	return sb.String()
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

type writer struct {
	buf     bytes.Buffer
	offsets map[int]int
}

func (w *writer) raw(s string) {
	w.buf.WriteString(s)
}

func (w *writer) mark(num int) {
	if w.offsets == nil {
		w.offsets = map[int]int{}
	}
	w.offsets[num] = w.buf.Len()
}

func (w *writer) object(num int, body string) {
	w.mark(num)
	fmt.Fprintf(&w.buf, "%d 0 obj\n%s\nendobj\n", num, body)
}

func (w *writer) stream(num int, content string) {
	w.mark(num)
	fmt.Fprintf(&w.buf, "%d 0 obj\n<< /Length %d >>\nstream\n%sendstream\nendobj\n", num, len(content), content)
}

// pad inserts a comment so the document clears minimum-size validation.
func (w *writer) pad(target int) {
	if w.buf.Len() >= target {
		return
	}
	w.raw("% " + strings.Repeat("p", target-w.buf.Len()) + "\n")
}

func (w *writer) finish(size int) {
	xrefOffset := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", size)
	w.raw("0000000000 65535 f \n")
	for num := 1; num < size; num++ {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", w.offsets[num])
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xrefOffset)
}
