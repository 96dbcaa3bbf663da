// Package intent defines the structured instruction variants deskpilot
// understands, and a parser that turns free-form text into one of them.
package intent

// Kind discriminates the closed set of intent variants.
type Kind string

const (
	// KindOrganizeAll organizes every file directly under SourceDir.
	KindOrganizeAll Kind = "organize_all"

	// KindMoveAndRename moves SourceFile into DestDir, optionally renaming.
	KindMoveAndRename Kind = "move_and_rename"

	// KindOpenApp opens the application named AppName.
	KindOpenApp Kind = "open_app"

	// KindOpenPath opens TargetPath in the system file browser.
	KindOpenPath Kind = "open_path"
)

// Intent is a parsed user instruction. Only the fields relevant to Kind are
// populated; an Intent is immutable once handed to the planner.
type Intent struct {
	Kind Kind

	// SourceDir is the directory to organize (KindOrganizeAll).
	SourceDir string

	// SourceFile is the file to move (KindMoveAndRename).
	SourceFile string

	// DestDir is the destination directory (KindMoveAndRename).
	DestDir string

	// NewName is the optional new file name (KindMoveAndRename).
	NewName string

	// AppName is the application to open (KindOpenApp).
	AppName string

	// TargetPath is the path to open (KindOpenPath).
	TargetPath string
}
