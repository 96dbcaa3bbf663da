// Package config manages deskpilot configuration: data directory paths and
// loading the rules file into a validated RuleSet.
//
// The default root is ~/.deskpilot/ containing rules.yaml. The root can be
// overridden with the DESKPILOT_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths contains the filesystem paths used by deskpilot.
type Paths struct {
	// Root is the base directory for deskpilot data (default: ~/.deskpilot)
	Root string

	// RulesFile is the path to the rules configuration file
	RulesFile string
}

// DefaultPaths returns the default paths for deskpilot.
// DESKPILOT_ROOT overrides the root directory.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("DESKPILOT_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".deskpilot")
	}

	return &Paths{
		Root:      root,
		RulesFile: filepath.Join(root, "rules.yaml"),
	}, nil
}

// EnsureDirectories creates the data directory if it doesn't exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}
