package plan

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deskpilot/deskpilot/internal/clock"
	"github.com/deskpilot/deskpilot/internal/fsops"
	"github.com/deskpilot/deskpilot/internal/intent"
	"github.com/deskpilot/deskpilot/internal/rules"
)

func newTestBuilder(t *testing.T, rs *rules.RuleSet) *Builder {
	t.Helper()
	fixed := time.Date(2026, 1, 23, 9, 0, 0, 0, time.UTC)
	return NewBuilder(rs, fsops.NewRealFS(), clock.NewFixedClock(fixed))
}

func resolved(t *testing.T, path string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("resolving %s: %v", path, err)
	}
	return r
}

func TestBuild_Organize(t *testing.T) {
	dir := t.TempDir()
	base := resolved(t, dir)
	docs := filepath.Join(base, "Docs")

	for _, name := range []string{"zeta.docx", "alpha.docx", "unmatched.xyz", ".hidden.docx"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	rs := &rules.RuleSet{
		ExtensionRules: []rules.ExtensionRule{
			{Extensions: []string{"docx"}, Dest: docs},
		},
		AllowedRoots: []string{base},
		SkipHidden:   true,
	}

	p, err := newTestBuilder(t, rs).Build(intent.Intent{Kind: intent.KindOrganizeAll, SourceDir: dir})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(p.Actions) != 2 {
		t.Fatalf("got %d actions, want 2: %+v", len(p.Actions), p.Actions)
	}
	// Listing order is lexicographic by name for reproducible previews.
	if p.Actions[0].From != filepath.Join(base, "alpha.docx") {
		t.Errorf("first action from %q, want alpha.docx first", p.Actions[0].From)
	}
	if p.Actions[1].To != filepath.Join(docs, "zeta.docx") {
		t.Errorf("second action to %q, want %q", p.Actions[1].To, filepath.Join(docs, "zeta.docx"))
	}
	for _, a := range p.Actions {
		if a.Kind != KindMove {
			t.Errorf("action kind = %s, want move", a.Kind)
		}
	}

	if len(p.Skipped) != 1 || p.Skipped[0].Name != "unmatched.xyz" {
		t.Errorf("Skipped = %+v, want exactly unmatched.xyz", p.Skipped)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if p.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("plan ID not assigned")
	}
}

func TestBuild_Organize_Deterministic(t *testing.T) {
	dir := t.TempDir()
	base := resolved(t, dir)
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("setup: %v", err)
		}
	}
	rs := &rules.RuleSet{
		ExtensionRules: []rules.ExtensionRule{
			{Extensions: []string{"txt"}, Dest: filepath.Join(base, "Texts")},
		},
		AllowedRoots: []string{base},
	}
	b := newTestBuilder(t, rs)

	first, err := b.Build(intent.Intent{Kind: intent.KindOrganizeAll, SourceDir: dir})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	second, err := b.Build(intent.Intent{Kind: intent.KindOrganizeAll, SourceDir: dir})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if Fingerprint(first.Actions) != Fingerprint(second.Actions) {
		t.Error("two builds over the same directory produced different action lists")
	}
	for i, want := range []string{"a.txt", "b.txt", "c.txt"} {
		if got := filepath.Base(first.Actions[i].From); got != want {
			t.Errorf("action %d from %q, want %q", i, got, want)
		}
	}
}

func TestBuild_MoveAndRename(t *testing.T) {
	dir := t.TempDir()
	base := resolved(t, dir)
	src := filepath.Join(dir, "作业1.docx")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	destDir := filepath.Join(dir, "学校资料", "机器学习")

	p, err := newTestBuilder(t, &rules.RuleSet{AllowedRoots: []string{base}}).Build(intent.Intent{
		Kind:       intent.KindMoveAndRename,
		SourceFile: src,
		DestDir:    destDir,
		NewName:    "ML_作业1_2026-01-23.docx",
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(p.Actions) != 1 {
		t.Fatalf("got %d actions, want exactly 1 (move+rename is one action)", len(p.Actions))
	}
	a := p.Actions[0]
	if a.Kind != KindMove {
		t.Errorf("kind = %s, want move", a.Kind)
	}
	if filepath.Base(a.To) != "ML_作业1_2026-01-23.docx" {
		t.Errorf("To = %q, want it to end in the new name", a.To)
	}
}

func TestBuild_MoveKeepsNameWithoutRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	p, err := newTestBuilder(t, &rules.RuleSet{}).Build(intent.Intent{
		Kind:       intent.KindMoveAndRename,
		SourceFile: src,
		DestDir:    filepath.Join(dir, "Docs"),
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if filepath.Base(p.Actions[0].To) != "report.pdf" {
		t.Errorf("To = %q, want source name preserved", p.Actions[0].To)
	}
}

func TestBuild_MoveSanitizesNewName(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(src, []byte("x"), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	p, err := newTestBuilder(t, &rules.RuleSet{}).Build(intent.Intent{
		Kind:       intent.KindMoveAndRename,
		SourceFile: src,
		DestDir:    dir,
		NewName:    "../escape.txt",
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if filepath.Base(p.Actions[0].To) != ".._escape.txt" {
		t.Errorf("To = %q, traversal in new name not neutralized", p.Actions[0].To)
	}
}

func TestBuild_OpenIntents(t *testing.T) {
	b := newTestBuilder(t, &rules.RuleSet{})

	p, err := b.Build(intent.Intent{Kind: intent.KindOpenApp, AppName: "Music"})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(p.Actions) != 1 || p.Actions[0].Kind != KindOpenApp || p.Actions[0].App != "Music" {
		t.Errorf("open_app plan = %+v", p.Actions)
	}

	dir := t.TempDir()
	p, err = b.Build(intent.Intent{Kind: intent.KindOpenPath, TargetPath: dir})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(p.Actions) != 1 || p.Actions[0].Kind != KindOpenPath {
		t.Errorf("open_path plan = %+v", p.Actions)
	}
}

func TestBuild_OrganizeMissingDir(t *testing.T) {
	b := newTestBuilder(t, &rules.RuleSet{})
	_, err := b.Build(intent.Intent{
		Kind:      intent.KindOrganizeAll,
		SourceDir: filepath.Join(t.TempDir(), "does-not-exist"),
	})
	if err == nil {
		t.Error("Build() succeeded for a missing source directory")
	}
}
