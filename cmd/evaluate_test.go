package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/regnav/pkg/engine"
)

func TestFlagName(t *testing.T) {
	assert.Equal(t, "business-plan", flagName(engine.BusinessPlan))
	assert.Equal(t, "compliance-policy", flagName(engine.CompliancePolicy))
	assert.Equal(t, "legal-structure", flagName(engine.LegalStructure))
}

func testReport() *engine.EvaluationReport {
	return &engine.EvaluationReport{
		Score: 40,
		Findings: []engine.Finding{
			{RequirementID: "board_structure", Category: "governance", Requirement: "Board", Status: engine.StatusMissing, Details: "No board."},
		},
		Recommendations: []string{},
		Documents: []engine.DocumentAnnotation{
			{Document: engine.LegalStructure, Title: "Legal Structure", Highlights: []engine.HighlightInstruction{}},
		},
	}
}

func TestWriteReportFormats(t *testing.T) {
	for _, format := range []string{"json", "text", "sarif"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeReport(&buf, format, testReport(), testReport()))
			assert.NotEmpty(t, buf.String())
		})
	}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, "text", testReport(), nil))
	assert.Contains(t, buf.String(), "Overall Readiness Score: 40% (needs work)")
}

func TestWriteOutDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, writeOutDir(dir, testReport()))

	for _, name := range []string{"report.json", "summary.txt", "report.sarif", "legal_structure.annotations.json"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Size(), name)
	}
}
