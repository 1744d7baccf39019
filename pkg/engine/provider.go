package engine

import (
	"context"
	"strings"
)

// FindingsProvider is the external, probabilistic evidence extractor. Given
// the raw text of each submitted document and the catalogue requirements it
// returns a best-effort opinion per requirement.
type FindingsProvider interface {
	Evaluate(ctx context.Context, texts map[Document]string, reqs []Requirement) (*ProviderResponse, error)
}

// Submission holds the per-page plain text of each submitted document
type Submission struct {
	Pages map[Document][]string `json:"documents"`
}

// Text returns the full text of one document
func (s Submission) Text(d Document) string {
	return strings.Join(s.Pages[d], "\n")
}

// Texts returns the full text of every submitted document
func (s Submission) Texts() map[Document]string {
	texts := make(map[Document]string, len(Documents))
	for _, d := range Documents {
		texts[d] = s.Text(d)
	}
	return texts
}

// Corpus concatenates every document in fixed order. Documents are separated
// by a newline so that patterns cannot span two documents.
func (s Submission) Corpus() string {
	parts := make([]string, 0, len(Documents))
	for _, d := range Documents {
		parts = append(parts, s.Text(d))
	}
	return strings.Join(parts, "\n")
}

// Empty reports whether no document has any extractable text
func (s Submission) Empty() bool {
	for _, d := range Documents {
		if strings.TrimSpace(s.Text(d)) != "" {
			return false
		}
	}
	return true
}
