package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapRemediation(t *testing.T) {
	cat := testCatalogue(t)
	findings := findingsWith(cat, map[string]Status{
		"minimum_capital_p2p": StatusMissing,
		"source_of_funds":     StatusCompliant,
		"data_residency":      StatusPartial,
		"board_structure":     StatusMissing,
	})

	out := MapRemediation(findings, cat)
	require.Len(t, out, 4)

	capital := out[0]
	assert.Equal(t, "Raise capital for Minimum paid-up capital.", capital.Suggestion)
	require.Len(t, capital.Resources, 1)
	assert.Equal(t, "QCB FinTech Office", capital.Resources[0].Name)

	compliant := out[1]
	assert.Empty(t, compliant.Suggestion)
	assert.Nil(t, compliant.Resources)

	residency := out[2]
	assert.Equal(t, "Host all customer PII in Qatar.", residency.Suggestion)
	require.Len(t, residency.Resources, 2)
	assert.Equal(t, "QCB FinTech Office", residency.Resources[0].Name)
	assert.Equal(t, "Cloud Sovereignty Advisors", residency.Resources[1].Name)

	board := out[3]
	assert.Equal(t, GenericSuggestion, board.Suggestion)
	assert.NotNil(t, board.Resources)
	assert.Empty(t, board.Resources)
}

func TestMapRemediationKeepsOverlaySuggestion(t *testing.T) {
	cat := testCatalogue(t)
	findings := ApplyOverlays(
		findingsWith(cat, map[string]Status{"source_of_funds": StatusCompliant}),
		"limit of QAR 45,000", DefaultOverlays(), nil)

	out := MapRemediation(findings, cat)

	assert.Contains(t, out[0].Suggestion, "AML Compliance Workshop Series")
	require.Len(t, out[0].Resources, 1)
}

func TestMapRemediationFallsBackOnBrokenTemplate(t *testing.T) {
	reqs := []Requirement{{ID: "a", Category: "c", Title: "A"}}
	cat, err := NewCatalogue(reqs, WeightConfig{DefaultWeight: 1}, map[string]string{"a": "Fix {{.Unknown"}, nil)
	require.NoError(t, err)

	out := MapRemediation([]Finding{{RequirementID: "a", Status: StatusMissing}}, cat)

	assert.Equal(t, "Fix {{.Unknown", out[0].Suggestion)
}
