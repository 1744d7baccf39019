package report

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v2/sarif"
	"github.com/user/regnav/pkg/engine"
)

const toolName = "regnav"

// ToSARIF exports the report as a SARIF log: one rule per requirement and one
// result per partial or missing finding. Located quotes become regions of
// the page they were found on.
func ToSARIF(r *engine.EvaluationReport) (*sarif.Report, error) {
	sarifLog, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to create SARIF report: %w", err)
	}

	highlights := make(map[string]engine.HighlightInstruction)
	for _, doc := range r.Documents {
		for _, h := range doc.Highlights {
			highlights[h.RequirementID] = h
		}
	}

	run := sarif.NewRunWithInformationURI(toolName, "https://github.com/user/regnav")
	for _, f := range r.Findings {
		rule := run.AddRule(f.RequirementID).
			WithName(f.Requirement).
			WithDescription(f.Requirement).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "error"})
		if f.Category != "" {
			rule.WithProperties(sarif.Properties{"category": f.Category})
		}
		if f.Suggestion != "" {
			rule.WithTextHelp(f.Suggestion)
		}

		if !f.NeedsRemediation() {
			continue
		}
		result := sarif.NewRuleResult(f.RequirementID).
			WithMessage(sarif.NewTextMessage(orNA(f.Details))).
			WithLevel(toSarifLevel(f.Status))

		if h, ok := highlights[f.RequirementID]; ok && h.Located() {
			for _, region := range h.Regions {
				result.AddLocation(sarif.NewLocation().WithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewArtifactLocation().WithUri(pageURI(h.Document, region.Page))).
						WithRegion(sarif.NewRegion().
							WithByteOffset(region.Start).
							WithByteLength(region.End - region.Start).
							WithSnippet(sarif.NewArtifactContent().WithText(h.QuoteText))),
				))
			}
		} else if f.FoundInDocument != "" {
			result.AddLocation(sarif.NewLocation().WithPhysicalLocation(
				sarif.NewPhysicalLocation().
					WithArtifactLocation(sarif.NewArtifactLocation().WithUri(string(f.FoundInDocument))),
			))
		}
		run.AddResult(result)
	}
	sarifLog.AddRun(run)
	return sarifLog, nil
}

// WriteSARIF writes the report as indented SARIF JSON
func WriteSARIF(w io.Writer, r *engine.EvaluationReport) error {
	sarifLog, err := ToSARIF(r)
	if err != nil {
		return err
	}
	return sarifLog.PrettyWrite(w)
}

func pageURI(doc engine.Document, page int) string {
	return fmt.Sprintf("%s#page=%d", doc, page+1)
}

func toSarifLevel(s engine.Status) string {
	if s == engine.StatusMissing {
		return "error"
	}
	return "warning"
}
