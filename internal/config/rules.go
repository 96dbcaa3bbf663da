package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deskpilot/deskpilot/internal/fsops"
	"github.com/deskpilot/deskpilot/internal/rules"
)

// ErrConfig indicates a malformed or invariant-violating rules file.
// This is the only error class that is fatal to the process.
var ErrConfig = errors.New("invalid configuration")

// rulesDoc is the on-disk shape of rules.yaml.
type rulesDoc struct {
	AllowedRoots   []string           `yaml:"allowed_roots"`
	IgnoreCase     bool               `yaml:"ignore_case"`
	SkipHidden     *bool              `yaml:"skip_hidden"`
	KeywordRules   []keywordRuleDoc   `yaml:"keyword_rules"`
	ExtensionRules []extensionRuleDoc `yaml:"extension_rules"`
}

type keywordRuleDoc struct {
	Keywords []string `yaml:"keywords"`
	Dest     string   `yaml:"dest"`
}

type extensionRuleDoc struct {
	Extensions []string `yaml:"extensions"`
	Dest       string   `yaml:"dest"`
}

// LoadRules reads and validates the rules file at path.
//
// A missing file is not an error: deskpilot starts with the built-in default
// roots and no rules. Anything else that goes wrong (unreadable file, bad
// YAML, a rule destination outside every allowed root) is ErrConfig and the
// whole RuleSet is rejected, never silently trimmed.
func LoadRules(path string) (*rules.RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultRules()
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfig, path, err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rs, nil
}

// ParseRules decodes and validates a rules.yaml payload into a RuleSet.
// All paths in the result are expanded and resolved to absolute form.
func ParseRules(data []byte) (*rules.RuleSet, error) {
	var doc rulesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode rules: %v", ErrConfig, err)
	}

	if len(doc.AllowedRoots) == 0 {
		return nil, fmt.Errorf("%w: allowed_roots must list at least one directory", ErrConfig)
	}

	roots := make([]string, 0, len(doc.AllowedRoots))
	for _, raw := range doc.AllowedRoots {
		if raw == "" {
			return nil, fmt.Errorf("%w: empty allowed root", ErrConfig)
		}
		root, err := fsops.Resolve(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve allowed root %q: %v", ErrConfig, raw, err)
		}
		roots = append(roots, root)
	}

	rs := &rules.RuleSet{
		AllowedRoots: roots,
		IgnoreCase:   doc.IgnoreCase,
		SkipHidden:   true,
	}
	if doc.SkipHidden != nil {
		rs.SkipHidden = *doc.SkipHidden
	}

	for i, kr := range doc.KeywordRules {
		dest, err := resolveDest(kr.Dest, roots)
		if err != nil {
			return nil, fmt.Errorf("keyword rule %d: %w", i, err)
		}
		if len(nonEmpty(kr.Keywords)) == 0 {
			return nil, fmt.Errorf("%w: keyword rule %d has no keywords", ErrConfig, i)
		}
		rs.KeywordRules = append(rs.KeywordRules, rules.KeywordRule{
			Keywords: nonEmpty(kr.Keywords),
			Dest:     dest,
			Priority: i,
		})
	}

	for i, er := range doc.ExtensionRules {
		dest, err := resolveDest(er.Dest, roots)
		if err != nil {
			return nil, fmt.Errorf("extension rule %d: %w", i, err)
		}
		if len(nonEmpty(er.Extensions)) == 0 {
			return nil, fmt.Errorf("%w: extension rule %d has no extensions", ErrConfig, i)
		}
		rs.ExtensionRules = append(rs.ExtensionRules, rules.ExtensionRule{
			Extensions: nonEmpty(er.Extensions),
			Dest:       dest,
			Priority:   i,
		})
	}

	return rs, nil
}

// resolveDest resolves a rule destination and enforces the containment
// invariant: every destination must sit under some allowed root.
func resolveDest(raw string, roots []string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("%w: rule has no destination", ErrConfig)
	}
	dest, err := fsops.Resolve(raw)
	if err != nil {
		return "", fmt.Errorf("%w: resolve destination %q: %v", ErrConfig, raw, err)
	}
	if !fsops.UnderAny(dest, roots) {
		return "", fmt.Errorf("%w: destination %q is outside allowed roots", ErrConfig, raw)
	}
	return dest, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// DefaultRules returns the RuleSet used when no rules file exists:
// the conventional desktop roots and no classification rules.
func DefaultRules() (*rules.RuleSet, error) {
	roots := make([]string, 0, 3)
	for _, raw := range []string{"~/Desktop", "~/Documents", "~/Downloads"} {
		root, err := fsops.Resolve(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: resolve default root %q: %v", ErrConfig, raw, err)
		}
		roots = append(roots, root)
	}
	return &rules.RuleSet{
		AllowedRoots: roots,
		SkipHidden:   true,
	}, nil
}

// defaultRulesYAML is the starter file written by `deskpilot rules --init`.
const defaultRulesYAML = `# deskpilot rules
#
# allowed_roots is the whitelist of directories deskpilot may touch.
# Rules are evaluated top to bottom; the first match wins. Keyword rules
# always take precedence over extension rules.

allowed_roots:
  - ~/Desktop
  - ~/Documents
  - ~/Downloads

skip_hidden: true
ignore_case: false

keyword_rules:
  - keywords: ["作业", "homework"]
    dest: ~/Documents/学校资料
  - keywords: ["发票", "invoice", "receipt"]
    dest: ~/Documents/Finance

extension_rules:
  - extensions: [docx, doc, pdf, txt, md]
    dest: ~/Documents/Docs
  - extensions: [png, jpg, jpeg, gif, heic]
    dest: ~/Documents/Images
  - extensions: [zip, tar, gz, dmg]
    dest: ~/Downloads/Archives
`

// WriteDefaultRules writes the starter rules file. Refuses to overwrite.
func WriteDefaultRules(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("rules file already exists at %s", path)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(defaultRulesYAML), 0644); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}
	return nil
}
