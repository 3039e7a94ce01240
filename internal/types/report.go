package types

// LengthResult is the outcome of evaluating a length rule against one value.
type LengthResult struct {
	Pass     bool       `json:"pass"`
	Unit     LengthUnit `json:"unit"`
	Measured int        `json:"measured"`
	Min      *int       `json:"min,omitempty"`
	Max      *int       `json:"max,omitempty"`
}

// InclusionResult lists the required phrases missing from the value.
type InclusionResult struct {
	Pass    bool     `json:"pass"`
	Missing []string `json:"missing"`
}

// ExclusionResult lists the banned phrases found in the value.
type ExclusionResult struct {
	Pass       bool     `json:"pass"`
	Violations []string `json:"violations"`
}

// FieldReport is the per-field breakdown of a compliance evaluation.
// Rule results are nil when the corresponding rule is not configured;
// absent rules always pass.
type FieldReport struct {
	Field     string           `json:"field"`
	Length    *LengthResult    `json:"length,omitempty"`
	Inclusion *InclusionResult `json:"inclusion,omitempty"`
	Exclusion *ExclusionResult `json:"exclusion,omitempty"`
	Pass      bool             `json:"pass"`
}

// ComplianceReport is the deterministic result of evaluating one Candidate
// against the run's constraint sets.
type ComplianceReport struct {
	Fields      []FieldReport `json:"fields"`
	OverallPass bool          `json:"overall_pass"`
}

// FieldReport returns the report for the named field, or nil if not present.
func (r *ComplianceReport) FieldReport(field string) *FieldReport {
	if r == nil {
		return nil
	}
	for i := range r.Fields {
		if r.Fields[i].Field == field {
			return &r.Fields[i]
		}
	}
	return nil
}
