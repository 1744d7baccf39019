package adk

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"text/template"

	"github.com/user/regnav/pkg/engine"
)

//go:embed prompts/system_prompt.md
var systemPrompt string

//go:embed prompts/evaluation_prompt.tmpl
var evaluationPrompt string

var evaluationTmpl = template.Must(template.New("evaluation").Parse(evaluationPrompt))

// GetSystemPrompt returns the system prompt for the findings agent
func GetSystemPrompt() string {
	return systemPrompt
}

// RenderEvaluationPrompt fills the evaluation prompt with the catalogue and
// the text of each submitted document
func RenderEvaluationPrompt(reqs []engine.Requirement, texts map[engine.Document]string) (string, error) {
	catalogue, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return "", err
	}

	data := struct {
		Requirements     string
		BusinessPlan     string
		CompliancePolicy string
		LegalStructure   string
	}{
		Requirements:     string(catalogue),
		BusinessPlan:     texts[engine.BusinessPlan],
		CompliancePolicy: texts[engine.CompliancePolicy],
		LegalStructure:   texts[engine.LegalStructure],
	}

	var buf bytes.Buffer
	if err := evaluationTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
