// Package report renders evaluation results for people and tools: the
// per-document trailer text, the full category report, SARIF and snapshots.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/user/regnav/pkg/engine"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Readiness is the coarse band a score falls into
type Readiness string

const (
	Ready     Readiness = "ready"
	NeedsWork Readiness = "needs work"
	NotReady  Readiness = "not ready"
)

const otherHeading = "Other"

// Band maps a score to its readiness band
func Band(score int) Readiness {
	switch {
	case score >= 90:
		return Ready
	case score >= 40:
		return NeedsWork
	default:
		return NotReady
	}
}

var statusMarker = map[engine.Status]string{
	engine.StatusCompliant: "[+]",
	engine.StatusPartial:   "[~]",
	engine.StatusMissing:   "[-]",
}

// DocumentSummary renders the trailer page text for one document: every
// finding whose evidence came from doc, grouped by status and sorted by
// title. It returns "" when no finding references doc.
func DocumentSummary(doc engine.Document, findings []engine.Finding) string {
	var relevant []engine.Finding
	for _, f := range findings {
		if f.FoundInDocument == doc {
			relevant = append(relevant, f)
		}
	}
	if len(relevant) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Findings Summary for %s\n\n", doc.Title()))
	for _, status := range engine.Statuses {
		items := byTitle(filter(relevant, func(f engine.Finding) bool { return f.Status == status }))
		if len(items) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("--- %s ---\n", strings.ToUpper(string(status))))
		for _, f := range items {
			sb.WriteString(fmt.Sprintf("%s %s\n", statusMarker[status], f.Requirement))
			sb.WriteString(fmt.Sprintf("   - Reasoning: %s\n\n", orNA(f.Details)))
		}
	}
	return sb.String()
}

// CategorySummary renders the full readiness report grouped by category
func CategorySummary(r *engine.EvaluationReport) string {
	var sb strings.Builder
	sb.WriteString("Compliance Readiness Report\n")
	sb.WriteString(fmt.Sprintf("Overall Readiness Score: %d%% (%s)\n", r.Score, Band(r.Score)))

	categories := make(map[string][]engine.Finding)
	for _, f := range r.Findings {
		cat := f.Category
		if cat == "" {
			cat = otherHeading
		}
		categories[cat] = append(categories[cat], f)
	}
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	caser := cases.Title(language.English)
	for _, name := range names {
		sb.WriteString(fmt.Sprintf("\n== %s ==\n", caser.String(strings.ReplaceAll(name, "_", " "))))
		for _, f := range byTitle(categories[name]) {
			sb.WriteString(fmt.Sprintf("%s %s\n", statusMarker[f.Status], f.Requirement))
			sb.WriteString(fmt.Sprintf("    Status: %s\n", caser.String(string(f.Status))))
			sb.WriteString(fmt.Sprintf("    Reasoning: %s\n", orNA(f.Details)))
			if f.Suggestion != "" {
				sb.WriteString(fmt.Sprintf("    Improvement Suggestion: %s\n", f.Suggestion))
			}
			if len(f.Resources) > 0 {
				sb.WriteString("    Recommended Resources:\n")
				for _, res := range f.Resources {
					sb.WriteString(fmt.Sprintf("      - %s (%s) - %s\n", res.Name, res.Type, res.Contact))
				}
			}
		}
	}

	if urgent := Urgent(r.Findings); len(urgent) > 0 {
		sb.WriteString(fmt.Sprintf("\nUrgent: %d requirement(s) missing\n", len(urgent)))
		for _, f := range urgent {
			sb.WriteString(fmt.Sprintf("  %s %s: %s\n", statusMarker[f.Status], f.Requirement, orNA(f.Suggestion)))
		}
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			sb.WriteString(fmt.Sprintf("  - %s\n", rec))
		}
	}
	return sb.String()
}

// Urgent returns the missing findings sorted by title
func Urgent(findings []engine.Finding) []engine.Finding {
	return byTitle(filter(findings, func(f engine.Finding) bool { return f.Status == engine.StatusMissing }))
}

func filter(findings []engine.Finding, keep func(engine.Finding) bool) []engine.Finding {
	var out []engine.Finding
	for _, f := range findings {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// byTitle sorts in place; callers pass slices they own
func byTitle(findings []engine.Finding) []engine.Finding {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Requirement < findings[j].Requirement
	})
	return findings
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
