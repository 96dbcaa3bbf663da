// Package executor runs confirmed plans against the real filesystem.
//
// Actions run strictly in plan order, one at a time. Each action is isolated:
// a failure is recorded and execution proceeds to the next action, so one bad
// file never blocks the rest of a batch. Rejected actions never execute; they
// appear in the report where they sat in the plan.
package executor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"syscall"

	"github.com/deskpilot/deskpilot/internal/fsops"
	"github.com/deskpilot/deskpilot/internal/gate"
	"github.com/deskpilot/deskpilot/internal/plan"
)

// Executor executes confirmed plans.
type Executor struct {
	fs       fsops.FS
	dispatch Dispatcher
}

// New creates an Executor.
func New(fs fsops.FS, dispatch Dispatcher) *Executor {
	return &Executor{fs: fs, dispatch: dispatch}
}

// Execute runs every allowed action of the confirmed plan in order and
// returns the report. The plan is transitioned to Executed and its in-flight
// paths released before returning. There is no cancellation mid-plan: once
// execution begins it runs the full action sequence.
func (e *Executor) Execute(ctx context.Context, cp *gate.ConfirmedPlan) *Report {
	report := &Report{
		Results: make([]Result, 0, len(cp.Reviewed())),
		Skipped: cp.Plan().Skipped,
	}

	for _, ra := range cp.Reviewed() {
		if ra.Verdict == gate.VerdictRejected {
			report.Results = append(report.Results, Result{
				Action:  ra.Action,
				Outcome: OutcomeRejected,
				Reason:  ra.Reason,
			})
			continue
		}

		result := e.runAction(ctx, ra.Action)
		switch result.Outcome {
		case OutcomeSuccess:
			report.Completed++
		case OutcomeFailed:
			report.Failed++
		}
		report.Results = append(report.Results, result)
	}

	_ = cp.Finish()
	return report
}

func (e *Executor) runAction(ctx context.Context, a plan.Action) Result {
	switch a.Kind {
	case plan.KindMove, plan.KindRename:
		return e.move(a)
	case plan.KindOpenApp:
		if err := e.dispatch.OpenApp(ctx, a.App); err != nil {
			return Result{Action: a, Outcome: OutcomeFailed, Reason: err.Error()}
		}
		return Result{Action: a, Outcome: OutcomeSuccess}
	case plan.KindOpenPath:
		if err := e.dispatch.OpenPath(ctx, a.Target); err != nil {
			return Result{Action: a, Outcome: OutcomeFailed, Reason: err.Error()}
		}
		return Result{Action: a, Outcome: OutcomeSuccess}
	default:
		return Result{Action: a, Outcome: OutcomeFailed, Reason: fmt.Sprintf("unknown action kind: %s", a.Kind)}
	}
}

// move relocates a.From to a.To, creating the destination directory.
// Same-volume moves are an atomic rename; cross-volume moves fall back to
// copy-then-delete. If the delete fails after a successful copy, the copy is
// left in place and the failure is reported, never a silent duplicate.
func (e *Executor) move(a plan.Action) Result {
	if a.From == a.To {
		return Result{Action: a, Outcome: OutcomeSkipped, Reason: "source and destination are the same"}
	}

	if err := e.fs.MkdirAll(filepath.Dir(a.To), 0755); err != nil {
		return Result{Action: a, Outcome: OutcomeFailed, Reason: fmt.Sprintf("failed to create destination directory: %v", err)}
	}

	err := withRetry(func() error { return e.fs.Rename(a.From, a.To) })
	if err == nil {
		return Result{Action: a, Outcome: OutcomeSuccess}
	}
	if !errors.Is(err, syscall.EXDEV) {
		return Result{Action: a, Outcome: OutcomeFailed, Reason: fmt.Sprintf("failed to move: %v", err)}
	}

	// Crossing volumes: copy, then remove the source.
	if err := withRetry(func() error { return e.fs.Copy(a.From, a.To) }); err != nil {
		return Result{Action: a, Outcome: OutcomeFailed, Reason: fmt.Sprintf("failed to copy across volumes: %v", err)}
	}
	if err := withRetry(func() error { return e.fs.Remove(a.From) }); err != nil {
		return Result{Action: a, Outcome: OutcomeFailed, Reason: fmt.Sprintf("copy succeeded, cleanup failed: %v", err)}
	}
	return Result{Action: a, Outcome: OutcomeSuccess}
}

// withRetry runs fn, retrying once for transient errors so no operation
// blocks or flakes on a momentarily busy resource.
func withRetry(fn func() error) error {
	err := fn()
	if err != nil && isTransient(err) {
		return fn()
	}
	return err
}

func isTransient(err error) bool {
	return errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.ETXTBSY)
}
