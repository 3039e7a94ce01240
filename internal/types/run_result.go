package types

// TimelineEvent is one observability record within a run. Offsets are relative
// to run start so timelines stay comparable across runs.
type TimelineEvent struct {
	OffsetMS int64  `json:"offset_ms"`
	Variant  int    `json:"variant"` // -1 for run-level events
	Kind     string `json:"kind"`
	Message  string `json:"message"`
}

// Timeline event kinds
const (
	EventRunStarted   = "run_started"
	EventDraftRequest = "draft_request"
	EventDraftResult  = "draft_result"
	EventEvaluated    = "evaluated"
	EventRepairStart  = "repair_start"
	EventRepairResult = "repair_result"
	EventScored       = "scored"
	EventFailed       = "failed"
	EventWinner       = "winner_selected"
)

// Winner is the selected variant's final output, surfaced with its compliance
// breakdown so a human editor can see exactly why the draft is or isn't acceptable.
type Winner struct {
	VariantIndex int               `json:"variant_index"`
	Final        *Candidate        `json:"final,omitempty"`
	Compliance   *ComplianceReport `json:"compliance,omitempty"`
	Score        float64           `json:"score"`
}

// RunResult is the JSON-serializable output of one orchestration run.
// A caller always receives one, even when every variant failed to generate.
type RunResult struct {
	RunID    string          `json:"run_id"`
	Field    string          `json:"field"`
	Winner   Winner          `json:"winner"`
	Variants []Variant       `json:"variants"`
	Timeline []TimelineEvent `json:"timeline"`
}

// Compliant reports whether the winning variant satisfied every configured rule.
func (r *RunResult) Compliant() bool {
	return r.Winner.Compliance != nil && r.Winner.Compliance.OverallPass
}
