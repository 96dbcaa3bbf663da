package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/deskpilot/deskpilot/internal/agent"
	"github.com/deskpilot/deskpilot/internal/config"
	"github.com/deskpilot/deskpilot/internal/executor"
	"github.com/deskpilot/deskpilot/internal/gate"
	"github.com/deskpilot/deskpilot/internal/intent"
	"github.com/deskpilot/deskpilot/internal/plan"
)

// newAgent creates an agent with real implementations of all dependencies.
// A config error here is fatal: an invalid rules file must never be half-used.
func newAgent() (*agent.Agent, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	return agent.FromConfig(paths)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderPreview prints a previewed plan for the user to inspect.
func renderPreview(pp *gate.PreviewedPlan) {
	PrintSection("Plan Preview")

	if len(pp.Reviewed) == 0 {
		PrintInfo("Nothing to do.")
	}
	for i, ra := range pp.Reviewed {
		desc := describeAction(ra.Action)
		switch {
		case ra.Verdict == gate.VerdictRejected:
			_, _ = errorColor.Printf("  %d. REJECTED %s (%s)\n", i+1, desc, ra.Reason)
		case ra.Risk == plan.RiskHigh:
			_, _ = warningColor.Printf("  %d. [%s] %s (%s)\n", i+1, riskLabel("high"), desc, ra.Reason)
		default:
			_, _ = infoColor.Printf("  %d. [%s] %s\n", i+1, riskLabel("low"), desc)
		}
	}

	if skipped := pp.Plan.Skipped; len(skipped) > 0 {
		fmt.Println()
		PrintInfo(fmt.Sprintf("Left in place (%s):", PrintCount(len(skipped), "file", "files")))
		items := make([]string, 0, len(skipped))
		for _, s := range skipped {
			items = append(items, fmt.Sprintf("%s (%s)", s.Name, s.Reason))
		}
		PrintList(items, 1)
	}

	fmt.Println()
	PrintLabelValue("Aggregate risk", string(pp.AggregateRisk))
	PrintLabelValue("Fingerprint", shortFingerprint(pp.Fingerprint))
}

// renderReport prints the execution report.
func renderReport(report *executor.Report) {
	PrintSection("Execution Report")

	for i, res := range report.Results {
		desc := describeAction(res.Action)
		switch res.Outcome {
		case executor.OutcomeSuccess:
			_, _ = successColor.Printf("  %d. ✓ %s\n", i+1, desc)
		case executor.OutcomeFailed:
			_, _ = errorColor.Printf("  %d. ✗ %s (%s)\n", i+1, desc, res.Reason)
		case executor.OutcomeRejected:
			_, _ = errorColor.Printf("  %d. REJECTED %s (%s)\n", i+1, desc, res.Reason)
		case executor.OutcomeSkipped:
			_, _ = infoColor.Printf("  %d. - %s (%s)\n", i+1, desc, res.Reason)
		}
	}

	fmt.Println()
	if report.OK() {
		PrintSuccess(fmt.Sprintf("Completed %s", PrintCount(report.Completed, "action", "actions")))
	} else {
		PrintWarning(fmt.Sprintf("Completed %d, failed %d", report.Completed, report.Failed))
	}
}

func describeAction(a plan.Action) string {
	switch a.Kind {
	case plan.KindMove:
		return fmt.Sprintf("move %s -> %s", a.From, a.To)
	case plan.KindRename:
		return fmt.Sprintf("rename %s -> %s", a.From, a.To)
	case plan.KindOpenApp:
		return fmt.Sprintf("open app %s", a.App)
	case plan.KindOpenPath:
		return fmt.Sprintf("open %s", a.Target)
	default:
		return string(a.Kind)
	}
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

// makeConfirm builds the confirmation policy for interactive commands:
// low-risk plans proceed, high-risk plans prompt unless --yes was given.
func makeConfirm(yes bool) agent.ConfirmFunc {
	return func(pp *gate.PreviewedPlan) (bool, error) {
		if !jsonOutput {
			renderPreview(pp)
		}

		if len(pp.Reviewed) == 0 || len(pp.Reviewed) == pp.RejectedCount() {
			// Nothing executable; run anyway so the report shows rejections.
			return true, nil
		}
		if pp.AggregateRisk == plan.RiskLow || yes {
			return true, nil
		}

		fmt.Println()
		_, _ = warningColor.Print("⚠ This plan carries high risk. Proceed? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes", nil
	}
}

// runOptions carries what the shared pipeline runner needs from a command.
type runOptions struct {
	ctx     context.Context
	intent  intent.Intent
	confirm agent.ConfirmFunc
	dryRun  bool
}

// runPipeline drives preview/confirm/execute for a parsed intent and renders
// the result. Shared by run, organize, move, and open.
func runPipeline(a *agent.Agent, run runOptions) error {
	if run.dryRun {
		pp, err := a.Preview(run.intent)
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(map[string]interface{}{
				"plan":        pp.Plan,
				"reviewed":    pp.Reviewed,
				"fingerprint": pp.Fingerprint,
				"risk":        pp.AggregateRisk,
			})
		}
		renderPreview(pp)
		PrintInfo("Dry run: nothing executed.")
		return nil
	}

	pp, report, err := a.Run(run.ctx, run.intent, run.confirm)
	if err != nil {
		return err
	}

	if jsonOutput {
		out := map[string]interface{}{
			"plan":        pp.Plan,
			"reviewed":    pp.Reviewed,
			"fingerprint": pp.Fingerprint,
			"risk":        pp.AggregateRisk,
		}
		if report != nil {
			out["report"] = report
		}
		return outputJSON(out)
	}

	if report == nil {
		PrintInfo("Plan discarded.")
		return nil
	}
	renderReport(report)
	return nil
}
