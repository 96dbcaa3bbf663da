package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestParseRules(t *testing.T) {
	dir := t.TempDir()
	docs := filepath.Join(dir, "Documents")
	if err := os.MkdirAll(filepath.Join(docs, "School"), 0755); err != nil {
		t.Fatalf("setup: %v", err)
	}

	data := fmt.Sprintf(`
allowed_roots:
  - %s
ignore_case: true
keyword_rules:
  - keywords: ["作业"]
    dest: %s/School
extension_rules:
  - extensions: [docx, ".PDF"]
    dest: %s/Docs
`, dir, docs, docs)

	rs, err := ParseRules([]byte(data))
	if err != nil {
		t.Fatalf("ParseRules() error: %v", err)
	}

	if len(rs.AllowedRoots) != 1 {
		t.Fatalf("got %d allowed roots, want 1", len(rs.AllowedRoots))
	}
	if !rs.IgnoreCase {
		t.Error("IgnoreCase not carried through")
	}
	if !rs.SkipHidden {
		t.Error("SkipHidden should default to true")
	}
	if len(rs.KeywordRules) != 1 || len(rs.ExtensionRules) != 1 {
		t.Fatalf("got %d keyword / %d extension rules, want 1 / 1",
			len(rs.KeywordRules), len(rs.ExtensionRules))
	}
	if rs.KeywordRules[0].Priority != 0 {
		t.Errorf("keyword rule priority = %d, want insertion index 0", rs.KeywordRules[0].Priority)
	}
}

func TestParseRules_DestOutsideRoots(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()

	data := fmt.Sprintf(`
allowed_roots:
  - %s
keyword_rules:
  - keywords: ["x"]
    dest: %s/Elsewhere
`, dir, outside)

	_, err := ParseRules([]byte(data))
	if err == nil {
		t.Fatal("ParseRules() accepted a destination outside allowed roots")
	}
	if !errors.Is(err, ErrConfig) {
		t.Errorf("error = %v, want ErrConfig", err)
	}
}

func TestParseRules_NoRoots(t *testing.T) {
	_, err := ParseRules([]byte(`keyword_rules: []`))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("error = %v, want ErrConfig for missing allowed_roots", err)
	}
}

func TestParseRules_BadYAML(t *testing.T) {
	_, err := ParseRules([]byte("allowed_roots: [unterminated"))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("error = %v, want ErrConfig for malformed YAML", err)
	}
}

func TestParseRules_EmptyKeywordRule(t *testing.T) {
	dir := t.TempDir()
	data := fmt.Sprintf(`
allowed_roots: [%s]
keyword_rules:
  - keywords: []
    dest: %s/x
`, dir, dir)

	_, err := ParseRules([]byte(data))
	if !errors.Is(err, ErrConfig) {
		t.Errorf("error = %v, want ErrConfig for keyword rule without keywords", err)
	}
}

func TestLoadRules_MissingFileUsesDefaults(t *testing.T) {
	rs, err := LoadRules(filepath.Join(t.TempDir(), "rules.yaml"))
	if err != nil {
		t.Fatalf("LoadRules() error for missing file: %v", err)
	}
	if len(rs.AllowedRoots) == 0 {
		t.Error("default RuleSet has no allowed roots")
	}
	if len(rs.KeywordRules) != 0 || len(rs.ExtensionRules) != 0 {
		t.Error("default RuleSet should have no rules")
	}
}

func TestLoadRules_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	data := fmt.Sprintf("allowed_roots: [%s]\n", dir)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	rs, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules() error: %v", err)
	}
	if len(rs.AllowedRoots) != 1 {
		t.Errorf("got %d roots, want 1", len(rs.AllowedRoots))
	}
}

func TestWriteDefaultRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")

	if err := WriteDefaultRules(path); err != nil {
		t.Fatalf("WriteDefaultRules() error: %v", err)
	}
	if err := WriteDefaultRules(path); err == nil {
		t.Error("WriteDefaultRules() overwrote an existing file")
	}

	// The starter file must itself parse, apart from root containment which
	// depends on the machine's home layout.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading starter file: %v", err)
	}
	if len(data) == 0 {
		t.Error("starter rules file is empty")
	}
}

func TestDefaultPaths_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DESKPILOT_ROOT", dir)

	p, err := DefaultPaths()
	if err != nil {
		t.Fatalf("DefaultPaths() error: %v", err)
	}
	if p.Root != dir {
		t.Errorf("Root = %q, want %q", p.Root, dir)
	}
	if p.RulesFile != filepath.Join(dir, "rules.yaml") {
		t.Errorf("RulesFile = %q", p.RulesFile)
	}
	if err := p.EnsureDirectories(); err != nil {
		t.Errorf("EnsureDirectories() error: %v", err)
	}
}
