package engine

import (
	"bytes"
	"fmt"
	"text/template"
)

// GenericSuggestion is used when no remediation template exists for a requirement
const GenericSuggestion = "Review this requirement with a compliance expert."

// MapRemediation attaches improvement guidance and resources to every partial
// or missing finding. Templates may reference finding fields, e.g.
// {{.Requirement}}. A suggestion already set by an overlay rule is kept rather
// than replaced by the catalogue template, so the rule's concrete guidance
// (e.g. a keyword rule's training recommendation) survives.
// Compliant findings get neither field.
func MapRemediation(findings []Finding, cat *Catalogue) []Finding {
	out := make([]Finding, len(findings))
	for i, f := range findings {
		if !f.NeedsRemediation() {
			f.Suggestion = ""
			f.Resources = nil
			out[i] = f
			continue
		}

		if f.Suggestion == "" {
			f.Suggestion = GenericSuggestion
			if tmpl, ok := cat.RemediationFor(f.RequirementID); ok {
				if text, err := renderString(f.RequirementID, tmpl, f); err == nil {
					f.Suggestion = text
				} else {
					f.Suggestion = tmpl
				}
			}
		}
		f.Resources = cat.ResourcesFor(f.RequirementID)
		out[i] = f
	}
	return out
}

func renderString(name, tmplStr string, data interface{}) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %v", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %v", name, err)
	}
	return buf.String(), nil
}
