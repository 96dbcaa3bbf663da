package executor

import "github.com/deskpilot/deskpilot/internal/plan"

// Outcome is the per-action result classification.
type Outcome string

const (
	// OutcomeSuccess means the action executed.
	OutcomeSuccess Outcome = "success"

	// OutcomeFailed means the action was attempted and failed; later actions
	// still run (partial-failure semantics).
	OutcomeFailed Outcome = "failed"

	// OutcomeSkipped means the action did not need to run (for example the
	// source and destination are already the same path).
	OutcomeSkipped Outcome = "skipped"

	// OutcomeRejected means the safety gate refused the action; it was never
	// attempted.
	OutcomeRejected Outcome = "rejected"
)

// Result is the outcome of one action.
type Result struct {
	Action  plan.Action `json:"action"`
	Outcome Outcome     `json:"outcome"`

	// Reason is the human-readable explanation for failed, skipped, and
	// rejected outcomes.
	Reason string `json:"reason,omitempty"`
}

// Report is the ordered record of a confirmed plan's execution: one result
// per action in original plan order (rejected actions interleaved where they
// sat), plus the files an organize run left unclassified.
type Report struct {
	Results []Result `json:"results"`

	// Skipped carries the plan's no-match notes through to result display.
	Skipped []plan.SkippedFile `json:"skipped,omitempty"`

	// Completed counts successful actions.
	Completed int `json:"completed"`

	// Failed counts failed actions.
	Failed int `json:"failed"`
}

// OK reports whether every attempted action succeeded.
func (r *Report) OK() bool {
	return r.Failed == 0
}
