// Package gate implements the safety gate: the plan preview/confirm state
// machine, per-action validation against the allowed roots, risk
// classification, and the process-wide in-flight path set that keeps two
// confirmed plans from racing into the same destinations.
package gate

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deskpilot/deskpilot/internal/fsops"
	"github.com/deskpilot/deskpilot/internal/plan"
)

var (
	// ErrStalePlan indicates confirm was attempted with a fingerprint that no
	// longer matches the previewed action list. The user must re-preview.
	ErrStalePlan = errors.New("stale plan: preview no longer matches")

	// ErrBusyPaths indicates another confirmed plan is already targeting one
	// of this plan's paths.
	ErrBusyPaths = errors.New("paths busy: another plan is already executing against them")

	// ErrStage indicates a transition that the plan lifecycle does not allow.
	ErrStage = errors.New("invalid plan stage")
)

// Stage is a plan's position in the Draft → Previewed → Confirmed → Executed
// lifecycle. Transitions are one-directional; there is no way back from
// Executed.
type Stage string

const (
	StageDraft     Stage = "draft"
	StagePreviewed Stage = "previewed"
	StageConfirmed Stage = "confirmed"
	StageExecuted  Stage = "executed"
)

func allowedTransition(from, to Stage) bool {
	switch from {
	case StageDraft:
		return to == StagePreviewed
	case StagePreviewed:
		return to == StageConfirmed
	case StageConfirmed:
		return to == StageExecuted
	default:
		return false
	}
}

// Verdict is the gate's per-action decision.
type Verdict string

const (
	// VerdictAllowed actions proceed to execution once confirmed.
	VerdictAllowed Verdict = "allowed"

	// VerdictRejected actions never reach the executor; they are retained in
	// the preview and the final report with their reason.
	VerdictRejected Verdict = "rejected"
)

// ReviewedAction is an action annotated by the gate. The embedded Action is
// a copy; the original plan is never mutated.
type ReviewedAction struct {
	plan.Action

	// Verdict says whether the action may execute.
	Verdict Verdict `json:"verdict"`
}

// PreviewedPlan is the gate's annotated copy of a plan, ready for user
// review. Confirm requires the fingerprint echoed back unchanged.
type PreviewedPlan struct {
	// Plan is the original, untouched plan.
	Plan *plan.Plan

	// Reviewed holds every action in original order, annotated.
	Reviewed []ReviewedAction

	// Fingerprint identifies the action list this preview belongs to.
	Fingerprint string

	// AggregateRisk is the whole-plan risk level.
	AggregateRisk plan.RiskLevel

	stage Stage
}

// Stage returns the plan's lifecycle stage.
func (pp *PreviewedPlan) Stage() Stage { return pp.stage }

// RejectedCount returns how many actions the gate rejected outright.
func (pp *PreviewedPlan) RejectedCount() int {
	n := 0
	for _, ra := range pp.Reviewed {
		if ra.Verdict == VerdictRejected {
			n++
		}
	}
	return n
}

// Gate validates plans and owns the in-flight path set.
type Gate struct {
	fs       fsops.FS
	roots    []string
	inflight *inflightSet
}

// New creates a Gate over the given allowed roots. Roots must already be
// resolved absolute paths (the config loader guarantees this).
func New(fs fsops.FS, roots []string) *Gate {
	return &Gate{fs: fs, roots: roots, inflight: newInflightSet()}
}

// Preview validates every action in the plan and produces the annotated
// PreviewedPlan (Draft → Previewed). The input plan is not modified.
//
// Rules applied per action:
//   - root containment: move/rename sources and destinations, and open-path
//     targets, must resolve under an allowed root; violations are rejected
//     outright but retained in the preview.
//   - overwrite conflict: an existing destination escalates the action to
//     High risk; the user decides.
//   - extension change: a move/rename that changes the file extension
//     escalates to High risk.
//   - open-app is always Low risk and never rejected here.
//
// A plan with two or more move/rename actions is marked aggregate High even
// if every individual action is Low: batches are harder to eyeball.
func (g *Gate) Preview(p *plan.Plan) *PreviewedPlan {
	pp := &PreviewedPlan{
		Plan:        p,
		Reviewed:    make([]ReviewedAction, 0, len(p.Actions)),
		Fingerprint: plan.Fingerprint(p.Actions),
		stage:       StagePreviewed,
	}

	mutating := 0
	aggregate := plan.RiskLow
	for _, a := range p.Actions {
		if a.MutatesFS() {
			mutating++
		}
		ra := g.review(a)
		if ra.Verdict == VerdictAllowed && ra.Risk == plan.RiskHigh {
			aggregate = plan.RiskHigh
		}
		pp.Reviewed = append(pp.Reviewed, ra)
	}

	if mutating > 1 {
		aggregate = plan.RiskHigh
	}
	pp.AggregateRisk = aggregate
	return pp
}

// review classifies a single action.
func (g *Gate) review(a plan.Action) ReviewedAction {
	ra := ReviewedAction{Action: a, Verdict: VerdictAllowed}
	ra.Risk = plan.RiskLow

	switch a.Kind {
	case plan.KindMove, plan.KindRename:
		for _, path := range []string{a.From, a.To} {
			if !g.contained(path) {
				return reject(a)
			}
		}

		var reasons []string
		if exists, err := g.fs.Exists(a.To); err == nil && exists {
			reasons = append(reasons, "would overwrite existing file")
		}
		if extensionChanged(a.From, a.To) {
			reasons = append(reasons, "changes the file extension")
		}
		if len(reasons) > 0 {
			ra.Risk = plan.RiskHigh
			ra.Reason = strings.Join(reasons, "; ")
		}

	case plan.KindOpenPath:
		if !g.contained(a.Target) {
			return reject(a)
		}

	case plan.KindOpenApp:
		// No path to validate; always low risk.
	}

	return ra
}

func reject(a plan.Action) ReviewedAction {
	ra := ReviewedAction{Action: a, Verdict: VerdictRejected}
	ra.Risk = plan.RiskHigh
	ra.Reason = "outside allowed roots"
	return ra
}

// contained reports whether path resolves under an allowed root.
// Resolution failures count as not contained: refuse what cannot be checked.
func (g *Gate) contained(path string) bool {
	resolved, err := fsops.Resolve(path)
	if err != nil {
		return false
	}
	return fsops.UnderAny(resolved, g.roots)
}

func extensionChanged(from, to string) bool {
	fromExt := strings.ToLower(filepath.Ext(from))
	toExt := strings.ToLower(filepath.Ext(to))
	return fromExt != "" && toExt != "" && fromExt != toExt
}

// Confirm transitions a previewed plan to Confirmed. The caller must echo
// the fingerprint it previewed; any mismatch means the plan changed since
// preview and the user must re-preview (ErrStalePlan).
//
// On success the plan's executable paths are registered in the process-wide
// in-flight set; a plan whose paths overlap an already-confirmed plan is
// rejected with ErrBusyPaths.
func (g *Gate) Confirm(pp *PreviewedPlan, fingerprint string) (*ConfirmedPlan, error) {
	if !allowedTransition(pp.stage, StageConfirmed) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrStage, pp.stage, StageConfirmed)
	}
	if fingerprint != pp.Fingerprint {
		return nil, ErrStalePlan
	}
	if current := plan.Fingerprint(pp.Plan.Actions); current != pp.Fingerprint {
		return nil, ErrStalePlan
	}

	paths := executablePaths(pp)
	if busy, ok := g.inflight.claim(pp.Plan.ID, paths); !ok {
		return nil, fmt.Errorf("%w: %s", ErrBusyPaths, busy)
	}

	pp.stage = StageConfirmed
	return &ConfirmedPlan{previewed: pp, gate: g, paths: paths, stage: StageConfirmed}, nil
}

// executablePaths collects every path an allowed action will touch.
func executablePaths(pp *PreviewedPlan) []string {
	var paths []string
	for _, ra := range pp.Reviewed {
		if ra.Verdict != VerdictAllowed {
			continue
		}
		for _, p := range []string{ra.From, ra.To, ra.Target} {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}
	return paths
}

// ConfirmedPlan is a plan the user approved against its exact fingerprint.
// Only the executor consumes it.
type ConfirmedPlan struct {
	previewed *PreviewedPlan
	gate      *Gate
	paths     []string
	stage     Stage
}

// Reviewed returns the annotated actions in original plan order.
func (cp *ConfirmedPlan) Reviewed() []ReviewedAction { return cp.previewed.Reviewed }

// Plan returns the underlying plan.
func (cp *ConfirmedPlan) Plan() *plan.Plan { return cp.previewed.Plan }

// Stage returns the plan's lifecycle stage.
func (cp *ConfirmedPlan) Stage() Stage { return cp.stage }

// Finish transitions the plan to Executed and releases its in-flight paths.
// Called by the executor once the full action sequence has run.
func (cp *ConfirmedPlan) Finish() error {
	if !allowedTransition(cp.stage, StageExecuted) {
		return fmt.Errorf("%w: %s -> %s", ErrStage, cp.stage, StageExecuted)
	}
	cp.stage = StageExecuted
	cp.previewed.stage = StageExecuted
	cp.gate.inflight.release(cp.previewed.Plan.ID)
	return nil
}

// Abort releases the in-flight paths of a confirmed plan that will not run.
// A no-op once the plan has executed.
func (cp *ConfirmedPlan) Abort() {
	if cp.stage != StageConfirmed {
		return
	}
	cp.gate.inflight.release(cp.previewed.Plan.ID)
}
