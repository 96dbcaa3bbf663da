// Package plan defines the Action and Plan types and builds Plans from
// Intents. A Plan is an ordered list of actions; ordering is execution
// order and is preserved end-to-end through preview and execution.
package plan

// ActionKind discriminates the closed set of action variants.
type ActionKind string

const (
	// KindMove moves a file from From to To. To encodes both the destination
	// directory and the final name, so move+rename is a single action.
	KindMove ActionKind = "move"

	// KindRename renames a file in place (From and To share a directory).
	KindRename ActionKind = "rename"

	// KindOpenApp opens the application named App.
	KindOpenApp ActionKind = "open_app"

	// KindOpenPath opens Target in the system file browser.
	KindOpenPath ActionKind = "open_path"
)

// RiskLevel is the coarse risk classification driving confirmation UX.
type RiskLevel string

const (
	RiskLow  RiskLevel = "low"
	RiskHigh RiskLevel = "high"
)

// Action is a single filesystem or dispatch operation in a Plan.
// Risk and Reason are empty until the safety gate classifies the action.
type Action struct {
	Kind ActionKind `json:"kind"`

	// From is the source path (move, rename).
	From string `json:"from,omitempty"`

	// To is the full destination path (move, rename).
	To string `json:"to,omitempty"`

	// Target is the path to open (open_path).
	Target string `json:"target,omitempty"`

	// App is the application name (open_app).
	App string `json:"app,omitempty"`

	// Risk is assigned by the safety gate.
	Risk RiskLevel `json:"risk,omitempty"`

	// Reason explains a non-default risk classification.
	Reason string `json:"reason,omitempty"`
}

// MutatesFS reports whether the action changes the filesystem.
// Move and rename count toward batch risk; opens do not.
func (a Action) MutatesFS() bool {
	return a.Kind == KindMove || a.Kind == KindRename
}
