package nbe

import (
	"fmt"

	"github.com/pion-lang/pion/internal/value"
)

// MetaStore holds the append-only, mutate-once metavariable solutions
// shared by the elaborator, the unifier and Eval. A meta transitions
// None -> Some(v) exactly once; Solve re-applied to an already-solved meta
// checks alpha-equivalence rather than overwriting (spec §5).
type MetaStore struct {
	types     []value.Value
	solutions []*value.Value
}

// NewMetaStore creates an empty store.
func NewMetaStore() *MetaStore { return &MetaStore{} }

// Fresh allocates a new unsolved metavariable of the given type and returns
// its id.
func (s *MetaStore) Fresh(t value.Value) int {
	s.types = append(s.types, t)
	s.solutions = append(s.solutions, nil)
	return len(s.types) - 1
}

// Len is the number of metavariables allocated so far.
func (s *MetaStore) Len() int { return len(s.types) }

// Type returns the type a metavariable was allocated with.
func (s *MetaStore) Type(id int) value.Value { return s.types[id] }

// Lookup returns the metavariable's solution, if any.
func (s *MetaStore) Lookup(id int) (value.Value, bool) {
	if id < 0 || id >= len(s.solutions) || s.solutions[id] == nil {
		return nil, false
	}
	return *s.solutions[id], true
}

// IsSolved reports whether id has a solution.
func (s *MetaStore) IsSolved(id int) bool {
	return id >= 0 && id < len(s.solutions) && s.solutions[id] != nil
}

// Solve records sol as the solution for id. If id already has a solution,
// the new one must be alpha-equivalent (quoted at level 0, since solutions
// are always closed terms); a mismatch is reported rather than silently
// overwriting, matching spec's meta-idempotence invariant.
func (s *MetaStore) Solve(id int, sol value.Value) error {
	if id < 0 || id >= len(s.solutions) {
		return fmt.Errorf("nbe: solve of unknown meta ?%d", id)
	}
	if s.solutions[id] != nil {
		ctx := Ctx{Opts: DefaultOpts(), Metas: s}
		existing := Quote(ctx, 0, *s.solutions[id])
		fresh := Quote(ctx, 0, sol)
		if Equal(existing, fresh) {
			return nil
		}
		return fmt.Errorf("nbe: meta ?%d already solved with an inequivalent solution", id)
	}
	v := sol
	s.solutions[id] = &v
	return nil
}
