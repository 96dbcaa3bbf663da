// Package agent wires the deskpilot pipeline together: instruction parsing,
// plan building, safety gating, and execution. It is the API surface the CLI
// calls; it contains no rendering and no transport.
//
// Data flows one way: Intent → Plan → PreviewedPlan → (user confirmation)
// → ConfirmedPlan → Report.
package agent

import (
	"context"
	"fmt"
	"os"

	"github.com/deskpilot/deskpilot/internal/clock"
	"github.com/deskpilot/deskpilot/internal/config"
	"github.com/deskpilot/deskpilot/internal/executor"
	"github.com/deskpilot/deskpilot/internal/fsops"
	"github.com/deskpilot/deskpilot/internal/gate"
	"github.com/deskpilot/deskpilot/internal/intent"
	"github.com/deskpilot/deskpilot/internal/plan"
	"github.com/deskpilot/deskpilot/internal/rules"
)

// ConfirmFunc decides whether a previewed plan may execute. The CLI shows
// the preview and prompts when the aggregate risk demands it.
type ConfirmFunc func(*gate.PreviewedPlan) (bool, error)

// Agent orchestrates the plan/preview/confirm/execute pipeline.
type Agent struct {
	rules    *rules.RuleSet
	builder  *plan.Builder
	gate     *gate.Gate
	executor *executor.Executor
	home     string
}

// New creates an Agent from its dependencies. home anchors relative
// locations in parsed instructions.
func New(rs *rules.RuleSet, fs fsops.FS, clk clock.Clock, dispatch executor.Dispatcher, home string) *Agent {
	return &Agent{
		rules:    rs,
		builder:  plan.NewBuilder(rs, fs, clk),
		gate:     gate.New(fs, rs.AllowedRoots),
		executor: executor.New(fs, dispatch),
		home:     home,
	}
}

// FromConfig builds an Agent with real implementations, loading the rules
// file from the given paths. A config error here is fatal to the process:
// an invariant-violating RuleSet is never partially accepted.
func FromConfig(paths *config.Paths) (*Agent, error) {
	rs, err := config.LoadRules(paths.RulesFile)
	if err != nil {
		return nil, err
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return New(rs, fsops.NewRealFS(), &clock.RealClock{}, executor.NewExecDispatcher(), home), nil
}

// Rules returns the loaded RuleSet.
func (a *Agent) Rules() *rules.RuleSet { return a.rules }

// Parse turns a free-form instruction into an Intent.
func (a *Agent) Parse(text string) (intent.Intent, error) {
	return intent.Parse(text, a.home)
}

// Preview builds a plan for the intent and runs it through the safety gate.
func (a *Agent) Preview(in intent.Intent) (*gate.PreviewedPlan, error) {
	p, err := a.builder.Build(in)
	if err != nil {
		return nil, err
	}
	return a.gate.Preview(p), nil
}

// Execute confirms a previewed plan against the fingerprint the caller was
// shown, then runs it. Staleness (gate.ErrStalePlan) and overlapping
// in-flight plans (gate.ErrBusyPaths) surface as errors; everything that
// goes wrong during execution is recorded per action in the report.
func (a *Agent) Execute(ctx context.Context, pp *gate.PreviewedPlan, fingerprint string) (*executor.Report, error) {
	cp, err := a.gate.Confirm(pp, fingerprint)
	if err != nil {
		return nil, err
	}
	return a.executor.Execute(ctx, cp), nil
}

// Run drives the full pipeline for one intent. confirm is consulted with the
// preview; returning false discards the plan (report is nil).
func (a *Agent) Run(ctx context.Context, in intent.Intent, confirm ConfirmFunc) (*gate.PreviewedPlan, *executor.Report, error) {
	pp, err := a.Preview(in)
	if err != nil {
		return nil, nil, err
	}

	ok, err := confirm(pp)
	if err != nil {
		return pp, nil, err
	}
	if !ok {
		return pp, nil, nil
	}

	report, err := a.Execute(ctx, pp, pp.Fingerprint)
	if err != nil {
		return pp, nil, err
	}
	return pp, report, nil
}
