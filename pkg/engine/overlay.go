package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OverlayRule is a deterministic correction applied on top of the provider's
// findings. Trigger scans the corpus; Update edits the targeted finding and
// reports whether it changed anything.
type OverlayRule struct {
	Name          string
	RequirementID string
	Trigger       func(corpus string) (captures []string, ok bool)
	Update        func(f *Finding, captures []string) bool
}

// ApplyOverlays runs rules in order against a copy of findings. The first rule
// that changes a requirement claims it; later rules targeting a claimed
// requirement are skipped. Rules whose pattern is absent are no-ops.
func ApplyOverlays(findings []Finding, corpus string, rules []OverlayRule, logger hclog.Logger) []Finding {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	out := make([]Finding, len(findings))
	copy(out, findings)

	index := make(map[string]int, len(out))
	for i, f := range out {
		index[f.RequirementID] = i
	}

	claimed := make(map[string]string)
	for _, rule := range rules {
		i, ok := index[rule.RequirementID]
		if !ok {
			continue
		}
		if owner, taken := claimed[rule.RequirementID]; taken {
			logger.Warn("overlay conflict, earlier rule wins", "rule", rule.Name, "requirement", rule.RequirementID, "winner", owner)
			continue
		}

		captures, ok := rule.Trigger(corpus)
		if !ok {
			continue
		}
		if rule.Update(&out[i], captures) {
			claimed[rule.RequirementID] = rule.Name
			logger.Info("overlay applied", "rule", rule.Name, "requirement", rule.RequirementID, "status", out[i].Status)
		}
	}
	return out
}

// ThresholdSpec configures a numeric-threshold overlay: a labelled currency
// amount in the corpus that must reach Minimum.
type ThresholdSpec struct {
	Name          string
	RequirementID string
	Label         string // e.g. "Paid-Up Capital"
	Currency      string // e.g. "QAR"
	Minimum       int64
	Document      Document
	Context       string // appended to the shortfall explanation
}

// NumericThresholdRule forces the requirement to missing when the labelled
// amount is below the minimum, reporting the exact shortfall.
func NumericThresholdRule(spec ThresholdSpec) OverlayRule {
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(spec.Label) + `:.*?` + regexp.QuoteMeta(spec.Currency) + `\s*([\d,]+)`)

	return OverlayRule{
		Name:          spec.Name,
		RequirementID: spec.RequirementID,
		Trigger: func(corpus string) ([]string, bool) {
			m := pattern.FindStringSubmatch(corpus)
			return m, m != nil
		},
		Update: func(f *Finding, captures []string) bool {
			actual, err := strconv.ParseInt(strings.ReplaceAll(captures[1], ",", ""), 10, 64)
			if err != nil || actual >= spec.Minimum {
				return false
			}
			shortfall := spec.Minimum - actual

			f.Status = StatusMissing
			f.Details = fmt.Sprintf("Financial Deficiency. The %s of %s is %s short of the required minimum of %s%s.",
				strings.ToLower(spec.Label),
				FormatAmount(spec.Currency, actual),
				FormatAmount(spec.Currency, shortfall),
				FormatAmount(spec.Currency, spec.Minimum),
				spec.Context)
			f.FoundInDocument = spec.Document
			f.KeyQuote = strings.TrimSpace(captures[0])
			return true
		},
	}
}

// KeywordSpec configures a keyword-trigger overlay
type KeywordSpec struct {
	Name          string
	RequirementID string
	Literal       string
	Status        Status
	Details       string
	Suggestion    string
	Document      Document
}

// KeywordTriggerRule overwrites the requirement with fixed advisory text when
// the literal appears anywhere in the corpus.
func KeywordTriggerRule(spec KeywordSpec) OverlayRule {
	return OverlayRule{
		Name:          spec.Name,
		RequirementID: spec.RequirementID,
		Trigger: func(corpus string) ([]string, bool) {
			if !strings.Contains(corpus, spec.Literal) {
				return nil, false
			}
			return []string{spec.Literal}, true
		},
		Update: func(f *Finding, _ []string) bool {
			f.Status = spec.Status
			f.Details = spec.Details
			f.Suggestion = spec.Suggestion
			f.FoundInDocument = spec.Document
			f.KeyQuote = spec.Literal
			return true
		},
	}
}

// DefaultOverlays returns the built-in rule set in execution order
func DefaultOverlays() []OverlayRule {
	return []OverlayRule{
		NumericThresholdRule(ThresholdSpec{
			Name:          "p2p-minimum-capital",
			RequirementID: "minimum_capital_p2p",
			Label:         "Paid-Up Capital",
			Currency:      "QAR",
			Minimum:       7500000,
			Document:      LegalStructure,
			Context:       " for a Category 2 (Marketplace Lending) license",
		}),
		KeywordTriggerRule(KeywordSpec{
			Name:          "source-of-funds-volume",
			RequirementID: "source_of_funds",
			Literal:       "QAR 45,000",
			Status:        StatusPartial,
			Details:       "Weakness Detected: The plan mentions transactions up to QAR 45,000. While this is below the high-risk threshold, it indicates significant transaction volumes that require robust monitoring.",
			Suggestion:    "It is highly recommended to enroll in the 'AML Compliance Workshop Series' to strengthen monitoring policies for large transaction volumes.",
			Document:      BusinessPlan,
		}),
	}
}

// FormatAmount renders n with thousands separators, e.g. "QAR 2,500,000"
func FormatAmount(currency string, n int64) string {
	p := message.NewPrinter(language.English)
	return p.Sprintf("%s %d", currency, n)
}
