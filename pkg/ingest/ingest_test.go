package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/regnav/pkg/engine"
)

func TestSplitPages(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "single page", in: "hello", want: []string{"hello"}},
		{name: "two pages", in: "one\ftwo", want: []string{"one", "two"}},
		{name: "trailing form feed", in: "one\ftwo\f", want: []string{"one", "two"}},
		{name: "blank middle page kept", in: "one\f\fthree", want: []string{"one", "", "three"}},
		{name: "crlf", in: "a\r\nb", want: []string{"a\nb"}},
		{name: "empty", in: "", want: []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitPages(tt.in))
		})
	}
}

func TestLoadSubmission(t *testing.T) {
	dir := t.TempDir()
	bp := filepath.Join(dir, "bp.txt")
	ls := filepath.Join(dir, "ls.txt")
	require.NoError(t, os.WriteFile(bp, []byte("Plan page 1\fPlan page 2\f"), 0600))
	require.NoError(t, os.WriteFile(ls, []byte("Paid-Up Capital: QAR 5,000,000"), 0600))

	sub, err := LoadSubmission(map[engine.Document]string{
		engine.BusinessPlan:     bp,
		engine.CompliancePolicy: "",
		engine.LegalStructure:   ls,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Plan page 1", "Plan page 2"}, sub.Pages[engine.BusinessPlan])
	assert.Empty(t, sub.Pages[engine.CompliancePolicy])
	assert.Equal(t, "Paid-Up Capital: QAR 5,000,000", sub.Text(engine.LegalStructure))
}

func TestLoadSubmissionFailures(t *testing.T) {
	dir := t.TempDir()
	blank := filepath.Join(dir, "blank.txt")
	require.NoError(t, os.WriteFile(blank, []byte("  \f \n"), 0600))

	t.Run("all documents empty", func(t *testing.T) {
		_, err := LoadSubmission(map[engine.Document]string{engine.BusinessPlan: blank})
		assert.ErrorIs(t, err, engine.ErrIngestion)
	})

	t.Run("unreadable file", func(t *testing.T) {
		_, err := LoadSubmission(map[engine.Document]string{engine.BusinessPlan: filepath.Join(dir, "nope.txt")})
		assert.ErrorIs(t, err, engine.ErrIngestion)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := LoadSubmission(map[engine.Document]string{"annual_report": blank})
		assert.ErrorIs(t, err, engine.ErrIngestion)
	})
}
