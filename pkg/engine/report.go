package engine

import (
	"strings"

	"github.com/user/regnav/pkg/locator"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HighlightInstruction tells the rendering layer what to mark in a document
type HighlightInstruction struct {
	RequirementID string           `json:"requirement_id"`
	Document      Document         `json:"document"`
	QuoteText     string           `json:"quote_text"`
	ColorClass    Status           `json:"color_class"`
	Color         [3]float64       `json:"color"`
	Comment       string           `json:"comment"`
	Regions       []locator.Region `json:"page_regions"` // empty when the quote could not be located
	Strategy      string           `json:"strategy,omitempty"`
}

// Located reports whether any region was resolved for the quote
func (h HighlightInstruction) Located() bool {
	return len(h.Regions) > 0
}

// DocumentAnnotation is everything the rendering layer needs for one document
type DocumentAnnotation struct {
	Document   Document               `json:"document"`
	Title      string                 `json:"title"`
	Highlights []HighlightInstruction `json:"highlights"`
	Summary    string                 `json:"summary,omitempty"` // trailer page text
}

// EvaluationReport is the terminal artifact of an evaluation run
type EvaluationReport struct {
	Score           int                  `json:"score"`
	Findings        []Finding            `json:"findings"`
	Recommendations []string             `json:"recommendations"`
	Documents       []DocumentAnnotation `json:"documents"`
}

// Finding returns the finding for id
func (r *EvaluationReport) Finding(id string) (Finding, bool) {
	for _, f := range r.Findings {
		if f.RequirementID == id {
			return f, true
		}
	}
	return Finding{}, false
}

// HighlightColor returns the RGB highlight colour for a status
func HighlightColor(s Status) [3]float64 {
	if s == StatusPartial {
		return [3]float64{1, 1, 0}
	}
	return [3]float64{1, 0, 0}
}

// Title returns the human readable name of the document, e.g. "Business Plan"
func (d Document) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(d), "_", " "))
}
