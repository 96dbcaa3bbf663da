package agent

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deskpilot/deskpilot/internal/clock"
	"github.com/deskpilot/deskpilot/internal/executor"
	"github.com/deskpilot/deskpilot/internal/fsops"
	"github.com/deskpilot/deskpilot/internal/gate"
	"github.com/deskpilot/deskpilot/internal/intent"
	"github.com/deskpilot/deskpilot/internal/plan"
	"github.com/deskpilot/deskpilot/internal/rules"
)

func newTestAgent(t *testing.T) (*Agent, string, *executor.FakeDispatcher) {
	t.Helper()
	dir := t.TempDir()
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	rs := &rules.RuleSet{
		KeywordRules: []rules.KeywordRule{
			{Keywords: []string{"作业"}, Dest: filepath.Join(root, "学校资料")},
		},
		ExtensionRules: []rules.ExtensionRule{
			{Extensions: []string{"docx"}, Dest: filepath.Join(root, "Docs")},
			{Extensions: []string{"png"}, Dest: filepath.Join(root, "Images")},
		},
		AllowedRoots: []string{root},
		SkipHidden:   true,
	}

	dispatch := executor.NewFakeDispatcher()
	clk := clock.NewFixedClock(time.Date(2026, 1, 23, 9, 0, 0, 0, time.UTC))
	return New(rs, fsops.NewRealFS(), clk, dispatch, root), root, dispatch
}

func accept(pp *gate.PreviewedPlan) (bool, error) { return true, nil }

func TestRun_OrganizePipeline(t *testing.T) {
	a, root, _ := newTestAgent(t)

	for _, name := range []string{"作业1.docx", "photo.png", "notes.docx", "mystery.bin"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}

	pp, report, err := a.Run(context.Background(), intent.Intent{
		Kind:      intent.KindOrganizeAll,
		SourceDir: root,
	}, accept)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	// Keyword beats extension for 作业1.docx.
	if _, err := os.Stat(filepath.Join(root, "学校资料", "作业1.docx")); err != nil {
		t.Errorf("作业1.docx not routed by keyword rule: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Docs", "notes.docx")); err != nil {
		t.Errorf("notes.docx not routed by extension rule: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "Images", "photo.png")); err != nil {
		t.Errorf("photo.png not routed by extension rule: %v", err)
	}
	// Unmatched files stay put and are reported.
	if _, err := os.Stat(filepath.Join(root, "mystery.bin")); err != nil {
		t.Errorf("unmatched file was moved: %v", err)
	}
	if len(report.Skipped) != 1 || report.Skipped[0].Name != "mystery.bin" {
		t.Errorf("report.Skipped = %+v", report.Skipped)
	}

	if report.Completed != 3 || report.Failed != 0 {
		t.Errorf("report = %d completed / %d failed, want 3 / 0", report.Completed, report.Failed)
	}
	// Three moves: batch escalation applies.
	if pp.AggregateRisk != plan.RiskHigh {
		t.Errorf("aggregate risk = %s, want high for a batch", pp.AggregateRisk)
	}
	if pp.Stage() != gate.StageExecuted {
		t.Errorf("stage = %s, want executed", pp.Stage())
	}
}

func TestRun_DeclinedPlanIsDiscarded(t *testing.T) {
	a, root, _ := newTestAgent(t)

	src := filepath.Join(root, "作业1.docx")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	decline := func(pp *gate.PreviewedPlan) (bool, error) { return false, nil }
	pp, report, err := a.Run(context.Background(), intent.Intent{
		Kind:      intent.KindOrganizeAll,
		SourceDir: root,
	}, decline)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report != nil {
		t.Error("declined plan still produced a report")
	}
	if pp.Stage() != gate.StagePreviewed {
		t.Errorf("stage = %s, want previewed after decline", pp.Stage())
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("declined plan touched the filesystem: %v", err)
	}
}

func TestRun_ParseToDispatch(t *testing.T) {
	a, _, dispatch := newTestAgent(t)

	in, err := a.Parse("打开软件 音乐")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	_, report, err := a.Run(context.Background(), in, accept)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.Completed != 1 {
		t.Errorf("Completed = %d, want 1", report.Completed)
	}
	if len(dispatch.Apps) != 1 || dispatch.Apps[0] != "Music" {
		t.Errorf("dispatched apps = %v, want [Music] (alias resolved)", dispatch.Apps)
	}
}

func TestExecute_StaleFingerprint(t *testing.T) {
	a, root, _ := newTestAgent(t)

	src := filepath.Join(root, "作业1.docx")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	pp, err := a.Preview(intent.Intent{Kind: intent.KindOrganizeAll, SourceDir: root})
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}

	if _, err := a.Execute(context.Background(), pp, "not-the-fingerprint"); err == nil {
		t.Fatal("Execute() accepted a mismatched fingerprint")
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("stale execute touched the filesystem: %v", err)
	}
}
