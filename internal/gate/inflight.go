package gate

import (
	"sync"

	"github.com/google/uuid"
)

// inflightSet is the process-wide registry of paths owned by confirmed but
// not-yet-executed plans. Claiming is all-or-nothing per plan.
type inflightSet struct {
	mu    sync.Mutex
	paths map[string]uuid.UUID
}

func newInflightSet() *inflightSet {
	return &inflightSet{paths: make(map[string]uuid.UUID)}
}

// claim registers every path for owner. If any path is already held by a
// different plan, nothing is claimed and the busy path is returned.
func (s *inflightSet) claim(owner uuid.UUID, paths []string) (busy string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range paths {
		if holder, held := s.paths[p]; held && holder != owner {
			return p, false
		}
	}
	for _, p := range paths {
		s.paths[p] = owner
	}
	return "", true
}

// release removes every path held by owner.
func (s *inflightSet) release(owner uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for p, holder := range s.paths {
		if holder == owner {
			delete(s.paths, p)
		}
	}
}
