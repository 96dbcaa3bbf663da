// Package rules defines the classification rule model for deskpilot.
//
// A RuleSet is loaded once per process from the rules file and is read-only
// afterwards. Rules are ordered: evaluation is top-to-bottom and the first
// match wins, so config order is the tie-break and must be preserved.
package rules

// KeywordRule routes a file to Dest when any of its keywords appears as a
// substring of the file name.
type KeywordRule struct {
	// Keywords are the substrings to look for in file names.
	Keywords []string

	// Dest is the destination directory (absolute, under an allowed root).
	Dest string

	// Priority is the rule's insertion index in the config file.
	Priority int
}

// ExtensionRule routes a file to Dest by its extension.
type ExtensionRule struct {
	// Extensions are matched case-insensitively, without the leading dot.
	Extensions []string

	// Dest is the destination directory (absolute, under an allowed root).
	Dest string

	// Priority is the rule's insertion index in the config file.
	Priority int
}

// RuleSet is the immutable, validated set of classification rules plus the
// allowed-root whitelist. Every Dest in the set is guaranteed (at load time)
// to resolve under one of AllowedRoots.
type RuleSet struct {
	// KeywordRules are evaluated first, in order.
	KeywordRules []KeywordRule

	// ExtensionRules are evaluated only when no keyword rule matched.
	ExtensionRules []ExtensionRule

	// AllowedRoots is the whitelist of resolved, absolute directories the
	// system is permitted to read from and write to.
	AllowedRoots []string

	// IgnoreCase makes keyword matching case-insensitive.
	// Extension matching is always case-insensitive.
	IgnoreCase bool

	// SkipHidden excludes dotfiles from organize runs.
	SkipHidden bool
}
