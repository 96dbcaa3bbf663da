package plan

import (
	"time"

	"github.com/google/uuid"
)

// SkippedFile records a file the classifier could not place during an
// organize run. Skipped files are surfaced to the user, never dropped.
type SkippedFile struct {
	// Name is the file's base name.
	Name string `json:"name"`

	// Reason explains why no action was produced.
	Reason string `json:"reason"`
}

// Plan is the ordered set of actions derived from one instruction.
// Plans are immutable once built: the safety gate annotates a copy rather
// than mutating in place, and staleness between preview and confirm is
// detected by fingerprinting the action list.
type Plan struct {
	// ID identifies the plan for the lifetime of the request.
	ID uuid.UUID `json:"id"`

	// Actions in execution order.
	Actions []Action `json:"actions"`

	// Skipped lists files an organize run left in place (no rule matched).
	Skipped []SkippedFile `json:"skipped,omitempty"`

	// CreatedAt is when the plan was built.
	CreatedAt time.Time `json:"created_at"`
}
