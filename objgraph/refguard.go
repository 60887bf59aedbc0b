package objgraph

import "github.com/relstream/fudge/errs"

// refGuard tracks which ref ids are currently being deserialized (entered
// but not yet registered with their live object), so a cyclic reference
// followed before a surrogate calls ReadContext.Register is reported as a
// SerializationError instead of recursing forever.
//
// Adapted from the teacher's collision.Tracker: a name-collision detector
// keyed by metric hash is repurposed here into an in-progress-registration
// detector keyed by ref id. The same shape — a set with an ordered list
// alongside it for deterministic iteration — carries over unchanged.
type refGuard struct {
	inProgress map[int]bool
	order      []int
}

func newRefGuard() *refGuard {
	return &refGuard{inProgress: make(map[int]bool)}
}

// enter records refID as in-progress. It fails if refID is already
// in-progress, which means deserialization recursed back into the same
// sub-message without the surrogate having registered a partially
// constructed object first.
func (g *refGuard) enter(refID int) error {
	if g.inProgress[refID] {
		return errs.ErrNotRegisteredBeforeRef
	}

	g.inProgress[refID] = true
	g.order = append(g.order, refID)

	return nil
}

func (g *refGuard) leave(refID int) {
	delete(g.inProgress, refID)
}

// count returns how many ref ids have ever been entered.
func (g *refGuard) count() int {
	return len(g.order)
}
