package rules

import (
	"path/filepath"
	"strings"
)

// Classify determines the destination directory for a file name.
//
// Keyword rules are evaluated first, in config order; the first rule with a
// matching keyword wins. If none match, extension rules are evaluated in
// config order. Returns ok=false when no rule matches; callers must surface
// that explicitly, never drop the file silently.
//
// Pure function over (name, rs): no filesystem access, no hidden state.
func Classify(name string, rs *RuleSet) (dest string, ok bool) {
	if dest, ok := matchKeyword(name, rs); ok {
		return dest, true
	}
	return matchExtension(name, rs)
}

func matchKeyword(name string, rs *RuleSet) (string, bool) {
	haystack := name
	if rs.IgnoreCase {
		haystack = strings.ToLower(name)
	}
	for _, rule := range rs.KeywordRules {
		for _, kw := range rule.Keywords {
			if kw == "" {
				continue
			}
			if rs.IgnoreCase {
				kw = strings.ToLower(kw)
			}
			if strings.Contains(haystack, kw) {
				return rule.Dest, true
			}
		}
	}
	return "", false
}

func matchExtension(name string, rs *RuleSet) (string, bool) {
	ext := normalizeExt(filepath.Ext(name))
	if ext == "" {
		return "", false
	}
	for _, rule := range rs.ExtensionRules {
		for _, e := range rule.Extensions {
			if normalizeExt(e) == ext {
				return rule.Dest, true
			}
		}
	}
	return "", false
}

// normalizeExt lowercases an extension and strips the leading dot.
func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
