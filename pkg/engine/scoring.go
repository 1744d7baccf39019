package engine

import "math"

// scoreTolerance absorbs float error from fractional partial multipliers so
// that a ratio which is a whole number by hand is not floored one point low.
const scoreTolerance = 1e-9

// Score computes the transparent readiness score in [0,100]. It iterates the
// catalogue ids rather than the findings so that absent findings count
// against the total.
func Score(findings []Finding, ids []string, weights WeightConfig) int {
	byID := make(map[string]Status, len(findings))
	for _, f := range findings {
		if _, seen := byID[f.RequirementID]; !seen {
			byID[f.RequirementID] = f.Status
		}
	}

	var earned float64
	var maxScore int
	for _, id := range ids {
		w := weights.Weight(id)
		maxScore += w

		switch byID[id] {
		case StatusCompliant:
			earned += float64(w)
		case StatusPartial:
			earned += float64(w) * weights.PartialMultiplier
		}
	}
	if maxScore == 0 {
		return 0
	}

	ratio := 100 * earned / float64(maxScore)
	if r := math.Round(ratio); math.Abs(ratio-r) < scoreTolerance {
		ratio = r
	}
	score := int(math.Floor(ratio))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
