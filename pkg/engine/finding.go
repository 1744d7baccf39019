package engine

// Status is the compliance determination for one requirement
type Status string

const (
	StatusCompliant Status = "compliant"
	StatusPartial   Status = "partial"
	StatusMissing   Status = "missing"
)

// Statuses lists every status in report order
var Statuses = []Status{StatusCompliant, StatusPartial, StatusMissing}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusCompliant, StatusPartial, StatusMissing:
		return true
	}
	return false
}

// Document identifies one of the three submitted documents
type Document string

const (
	BusinessPlan     Document = "business_plan"
	CompliancePolicy Document = "compliance_policy"
	LegalStructure   Document = "legal_structure"
)

// Documents lists the submitted documents in their fixed order
var Documents = []Document{BusinessPlan, CompliancePolicy, LegalStructure}

// Valid reports whether d names a submitted document
func (d Document) Valid() bool {
	switch d {
	case BusinessPlan, CompliancePolicy, LegalStructure:
		return true
	}
	return false
}

// Finding is the per-requirement determination for one evaluation run
type Finding struct {
	RequirementID   string          `json:"id"`
	Category        string          `json:"category"`
	Requirement     string          `json:"requirement"` // requirement title
	Status          Status          `json:"status"`
	Details         string          `json:"details"`
	FoundInDocument Document        `json:"found_in_document"` // empty when unassigned
	KeyQuote        string          `json:"key_quote"`
	Suggestion      string          `json:"suggestion,omitempty"`
	Resources       []ResourceEntry `json:"resources,omitempty"`
}

// NeedsRemediation reports whether the finding is partial or missing
func (f Finding) NeedsRemediation() bool {
	return f.Status == StatusPartial || f.Status == StatusMissing
}

// ProviderFinding is one raw, untrusted entry returned by a findings provider.
// Every field may be absent.
type ProviderFinding struct {
	ID              string `json:"id"`
	Category        string `json:"category"`
	Requirement     string `json:"requirement"`
	Status          string `json:"status"`
	Details         string `json:"details"`
	FoundInDocument string `json:"found_in_document"`
	KeyQuote        string `json:"key_quote"`
}

// ProviderResponse is the structured opinion returned by a findings provider
type ProviderResponse struct {
	Requirements    []ProviderFinding `json:"requirements"`
	Recommendations []string          `json:"recommendations"`
}
