package plan

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/deskpilot/deskpilot/internal/clock"
	"github.com/deskpilot/deskpilot/internal/fsops"
	"github.com/deskpilot/deskpilot/internal/intent"
	"github.com/deskpilot/deskpilot/internal/rules"
)

// Builder compiles Intents into Plans using the loaded RuleSet.
type Builder struct {
	rules *rules.RuleSet
	fs    fsops.FS
	clock clock.Clock
}

// NewBuilder creates a Builder.
func NewBuilder(rs *rules.RuleSet, fs fsops.FS, clk clock.Clock) *Builder {
	return &Builder{rules: rs, fs: fs, clock: clk}
}

// Build produces a Plan for the given intent. The returned plan's action
// order is the execution order; for organize runs it follows the directory
// listing sorted by name, so previews are reproducible.
func (b *Builder) Build(in intent.Intent) (*Plan, error) {
	p := &Plan{
		ID:        uuid.New(),
		CreatedAt: b.clock.Now(),
	}

	switch in.Kind {
	case intent.KindOrganizeAll:
		if err := b.buildOrganize(p, in.SourceDir); err != nil {
			return nil, err
		}
	case intent.KindMoveAndRename:
		if err := b.buildMove(p, in); err != nil {
			return nil, err
		}
	case intent.KindOpenApp:
		p.Actions = append(p.Actions, Action{Kind: KindOpenApp, App: in.AppName})
	case intent.KindOpenPath:
		target, err := fsops.Resolve(in.TargetPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", in.TargetPath, err)
		}
		p.Actions = append(p.Actions, Action{Kind: KindOpenPath, Target: target})
	default:
		return nil, fmt.Errorf("unknown intent kind: %s", in.Kind)
	}

	return p, nil
}

// buildOrganize classifies every regular file directly under sourceDir.
// Non-recursive: subdirectories are left alone. Files with no matching rule
// become Skipped notes on the plan, not actions.
func (b *Builder) buildOrganize(p *Plan, sourceDir string) error {
	dir, err := fsops.Resolve(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to resolve source directory %q: %w", sourceDir, err)
	}

	entries, err := b.fs.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() {
			continue
		}
		if b.rules.SkipHidden && fsops.IsHidden(name) {
			continue
		}

		dest, ok := rules.Classify(name, b.rules)
		if !ok {
			p.Skipped = append(p.Skipped, SkippedFile{Name: name, Reason: "no matching rule"})
			continue
		}

		p.Actions = append(p.Actions, Action{
			Kind: KindMove,
			From: filepath.Join(dir, name),
			To:   filepath.Join(dest, name),
		})
	}

	return nil
}

// buildMove produces the single move action for a move-and-rename intent.
// The destination path encodes both the directory and the final name, so a
// rename never needs a second action.
func (b *Builder) buildMove(p *Plan, in intent.Intent) error {
	src, err := fsops.Resolve(in.SourceFile)
	if err != nil {
		return fmt.Errorf("failed to resolve source file %q: %w", in.SourceFile, err)
	}
	destDir, err := fsops.Resolve(in.DestDir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination %q: %w", in.DestDir, err)
	}

	finalName := in.NewName
	if finalName == "" {
		finalName = filepath.Base(src)
	}

	p.Actions = append(p.Actions, Action{
		Kind: KindMove,
		From: src,
		To:   fsops.SafeJoin(destDir, finalName),
	})
	return nil
}
