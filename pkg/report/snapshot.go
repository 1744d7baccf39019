package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/user/regnav/pkg/engine"
)

const DefaultSnapshotPath = ".regnav-snapshot.json"

// Snapshot is a saved evaluation used as a baseline for later runs. A plain
// report JSON file loads as a snapshot without SavedAt.
type Snapshot struct {
	SavedAt  time.Time        `json:"saved_at,omitempty"`
	Score    int              `json:"score"`
	Findings []engine.Finding `json:"findings"`
}

// Diff is the gap-level comparison of two evaluations. A gap is a partial or
// missing finding.
type Diff struct {
	New        []engine.Finding `json:"new"`
	Resolved   []engine.Finding `json:"resolved"`
	Unchanged  []engine.Finding `json:"unchanged"`
	ScoreDelta int              `json:"score_delta"`
}

// NewSnapshot captures the scored findings of a report
func NewSnapshot(r *engine.EvaluationReport) *Snapshot {
	return &Snapshot{
		SavedAt:  time.Now().UTC(),
		Score:    r.Score,
		Findings: append([]engine.Finding(nil), r.Findings...),
	}
}

// SaveSnapshot writes the report's findings to path
func SaveSnapshot(path string, r *engine.EvaluationReport) error {
	data, err := json.MarshalIndent(NewSnapshot(r), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadSnapshot reads a snapshot or report file
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &s, nil
}

// Compare reports which gaps appeared, were resolved or persist between the
// baseline and the current evaluation, keyed by requirement id
func Compare(current, baseline *Snapshot) Diff {
	baseGaps := gapsByID(baseline.Findings)
	curGaps := gapsByID(current.Findings)

	diff := Diff{
		New:        []engine.Finding{},
		Resolved:   []engine.Finding{},
		Unchanged:  []engine.Finding{},
		ScoreDelta: current.Score - baseline.Score,
	}
	for _, f := range current.Findings {
		if !f.NeedsRemediation() {
			continue
		}
		if _, ok := baseGaps[f.RequirementID]; ok {
			diff.Unchanged = append(diff.Unchanged, f)
		} else {
			diff.New = append(diff.New, f)
		}
	}
	for _, f := range baseline.Findings {
		if !f.NeedsRemediation() {
			continue
		}
		if _, ok := curGaps[f.RequirementID]; !ok {
			diff.Resolved = append(diff.Resolved, f)
		}
	}
	return diff
}

func gapsByID(findings []engine.Finding) map[string]engine.Finding {
	gaps := make(map[string]engine.Finding)
	for _, f := range findings {
		if f.NeedsRemediation() {
			gaps[f.RequirementID] = f
		}
	}
	return gaps
}

// FormatDiff renders a diff for the terminal
func FormatDiff(d Diff, baselineName string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Snapshot Comparison (vs %s):\n", baselineName))
	sb.WriteString("--------------------------------------------------\n")
	sb.WriteString(fmt.Sprintf("SCORE CHANGE: %+d\n\n", d.ScoreDelta))

	sb.WriteString(fmt.Sprintf("NEW GAPS: %d\n", len(d.New)))
	for _, f := range d.New {
		sb.WriteString(fmt.Sprintf("  [+] [%s] %s (%s) - %s\n", f.Status, f.Requirement, f.Category, orNA(f.Details)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("RESOLVED GAPS: %d\n", len(d.Resolved)))
	for _, f := range d.Resolved {
		sb.WriteString(fmt.Sprintf("  [-] [%s] %s (%s)\n", f.Status, f.Requirement, f.Category))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("UNCHANGED GAPS: %d\n", len(d.Unchanged)))
	for _, f := range d.Unchanged {
		sb.WriteString(fmt.Sprintf("  [=] [%s] %s (%s)\n", f.Status, f.Requirement, f.Category))
	}
	return sb.String()
}
