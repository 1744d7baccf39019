package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testCatalogue has five requirements; two are linked to resources.
func testCatalogue(t *testing.T) *Catalogue {
	t.Helper()
	reqs := []Requirement{
		{ID: "minimum_capital_p2p", Category: "financial", Title: "Minimum paid-up capital"},
		{ID: "source_of_funds", Category: "aml", Title: "Source of funds checks"},
		{ID: "data_residency", Category: "data", Title: "Data residency in Qatar"},
		{ID: "board_structure", Category: "governance", Title: "Board structure"},
		{ID: "complaints_handling", Category: "consumer", Title: "Complaints handling"},
	}
	weights := WeightConfig{
		Weights:           map[string]int{"minimum_capital_p2p": 3, "source_of_funds": 3},
		DefaultWeight:     2,
		PartialMultiplier: 0.4,
	}
	remediation := map[string]string{
		"minimum_capital_p2p": "Raise capital for {{.Requirement}}.",
		"data_residency":      "Host all customer PII in Qatar.",
	}
	resources := []ResourceEntry{
		{Name: "QCB FinTech Office", Type: "regulator", Contact: "fintech@qcb.gov.qa", LinkedRuleIDs: []string{"minimum_capital_p2p", "data_residency"}},
		{Name: "AML Compliance Workshop Series", Type: "programme", Contact: "aml@example.qa", LinkedRuleIDs: []string{"source_of_funds"}},
		{Name: "Cloud Sovereignty Advisors", Type: "expert", Contact: "cloud@example.qa", LinkedRuleIDs: []string{"data_residency"}},
	}
	cat, err := NewCatalogue(reqs, weights, remediation, resources)
	require.NoError(t, err)
	return cat
}

func findingsWith(cat *Catalogue, statuses map[string]Status) []Finding {
	var out []Finding
	for _, r := range cat.Requirements() {
		s, ok := statuses[r.ID]
		if !ok {
			continue
		}
		out = append(out, Finding{RequirementID: r.ID, Category: r.Category, Requirement: r.Title, Status: s})
	}
	return out
}
