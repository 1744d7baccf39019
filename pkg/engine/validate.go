package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-hclog"
)

// validate is shared by catalogue construction and provider normalization
var validate = validator.New()

// SynthesizedDetails is the rationale given to requirements the provider never assessed
const SynthesizedDetails = "Not assessed by the findings provider; treated as missing until evidence is supplied."

// checkedFinding is a provider finding after trimming, ready for tag validation
type checkedFinding struct {
	ID       string `validate:"required"`
	Status   string `validate:"oneof=compliant partial missing"`
	Document string `validate:"omitempty,oneof=business_plan compliance_policy legal_structure"`
}

// Normalize turns an untrusted provider response into exactly one finding per
// catalogue requirement, in catalogue order. Unknown ids are dropped, repeated
// ids keep their first occurrence, out-of-domain statuses become missing,
// invalid document references become unassigned and omitted requirements are
// synthesized as missing. A response with no usable finding is a provider error.
func Normalize(resp *ProviderResponse, cat *Catalogue, logger hclog.Logger) ([]Finding, []string, error) {
	if resp == nil {
		return nil, nil, fmt.Errorf("%w: empty response", ErrProvider)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	byID := make(map[string]Finding, len(resp.Requirements))
	for _, raw := range resp.Requirements {
		c := checkedFinding{
			ID:       strings.TrimSpace(raw.ID),
			Status:   strings.ToLower(strings.TrimSpace(raw.Status)),
			Document: strings.ToLower(strings.TrimSpace(raw.FoundInDocument)),
		}
		if c.ID == "" {
			logger.Debug("dropping provider finding without id")
			continue
		}
		if !cat.Has(c.ID) {
			logger.Warn("dropping provider finding for unknown requirement", "id", c.ID)
			continue
		}
		if _, seen := byID[c.ID]; seen {
			logger.Warn("dropping repeated provider finding", "id", c.ID)
			continue
		}

		var verrs validator.ValidationErrors
		if err := validate.Struct(c); errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "Status":
					logger.Warn("provider returned unknown status, treating as missing", "id", c.ID, "status", c.Status)
					c.Status = string(StatusMissing)
				case "Document":
					logger.Debug("provider returned unknown document", "id", c.ID, "document", c.Document)
					c.Document = ""
				}
			}
		}

		req, _ := cat.Requirement(c.ID)
		f := Finding{
			RequirementID:   c.ID,
			Category:        req.Category,
			Requirement:     req.Title,
			Status:          Status(c.Status),
			Details:         strings.TrimSpace(raw.Details),
			FoundInDocument: Document(c.Document),
			KeyQuote:        strings.TrimSpace(raw.KeyQuote),
		}
		if f.Status == StatusCompliant {
			f.KeyQuote = ""
		}
		byID[c.ID] = f
	}

	if len(byID) == 0 {
		return nil, nil, fmt.Errorf("%w: no findings for any catalogue requirement", ErrProvider)
	}

	findings := make([]Finding, 0, len(cat.requirements))
	for _, req := range cat.requirements {
		f, ok := byID[req.ID]
		if !ok {
			logger.Info("synthesizing missing finding for unassessed requirement", "id", req.ID)
			f = Finding{
				RequirementID: req.ID,
				Category:      req.Category,
				Requirement:   req.Title,
				Status:        StatusMissing,
				Details:       SynthesizedDetails,
			}
		}
		findings = append(findings, f)
	}

	var recommendations []string
	for _, r := range resp.Recommendations {
		if r = strings.TrimSpace(r); r != "" {
			recommendations = append(recommendations, r)
		}
	}
	return findings, recommendations, nil
}
