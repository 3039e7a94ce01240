package types

// VariantState tracks a variant lane through its lifecycle:
// DRAFTING -> EVALUATING -> (REPAIRING -> EVALUATING)* -> SCORED,
// with DRAFTING able to terminate directly in FAILED on a generation error.
type VariantState string

// Variant states
const (
	StateDrafting   VariantState = "drafting"
	StateEvaluating VariantState = "evaluating"
	StateRepairing  VariantState = "repairing"
	StateScored     VariantState = "scored"
	StateFailed     VariantState = "failed"
)

// RepairStep records one revise-and-recheck cycle: the report that triggered
// the revision and the candidate the revision produced.
type RepairStep struct {
	Iteration int              `json:"iteration"`
	Report    ComplianceReport `json:"report"`
	Candidate Candidate        `json:"candidate"`
}

// Variant is one full generate-then-repair attempt lane.
type Variant struct {
	Index       int               `json:"index"`
	State       VariantState      `json:"state"`
	Initial     *Candidate        `json:"initial,omitempty"`
	Repairs     []RepairStep      `json:"repairs,omitempty"`
	Final       *Candidate        `json:"final,omitempty"`
	FinalReport *ComplianceReport `json:"final_report,omitempty"`
	Score       float64           `json:"score"`
	Error       *GenerationError  `json:"error,omitempty"`
}

// Failed reports whether the variant never produced a candidate.
func (v *Variant) Failed() bool {
	return v.State == StateFailed
}
