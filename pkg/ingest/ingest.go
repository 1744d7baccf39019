// Package ingest turns extracted document text into an engine.Submission.
// Input files hold one document's plain text with pages separated by form
// feeds, as written by `pdftotext -layout`.
package ingest

import (
	"fmt"
	"os"
	"strings"

	"github.com/user/regnav/pkg/engine"
)

// PageBreak separates pages in extracted text
const PageBreak = "\f"

// SplitPages splits extracted text into pages. A trailing empty page left by
// a final form feed is dropped.
func SplitPages(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	pages := strings.Split(text, PageBreak)
	if n := len(pages); n > 1 && strings.TrimSpace(pages[n-1]) == "" {
		pages = pages[:n-1]
	}
	return pages
}

// ReadPages reads one extracted document from disk
func ReadPages(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", engine.ErrIngestion, err)
	}
	return SplitPages(string(data)), nil
}

// LoadSubmission reads every given document. Documents without a path are
// submitted empty; a submission with no text at all is an ingestion failure.
func LoadSubmission(paths map[engine.Document]string) (engine.Submission, error) {
	sub := engine.Submission{Pages: make(map[engine.Document][]string, len(engine.Documents))}
	for doc, path := range paths {
		if !doc.Valid() {
			return engine.Submission{}, fmt.Errorf("%w: unknown document %q", engine.ErrIngestion, doc)
		}
		if path == "" {
			continue
		}
		pages, err := ReadPages(path)
		if err != nil {
			return engine.Submission{}, fmt.Errorf("read %s: %w", doc, err)
		}
		sub.Pages[doc] = pages
	}

	if sub.Empty() {
		return engine.Submission{}, fmt.Errorf("%w: no extractable text in any document", engine.ErrIngestion)
	}
	return sub, nil
}
