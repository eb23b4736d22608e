package smgr

import "github.com/alex-ozdemir/murxla/internal/solver"

// Term is a typed, owned handle in the database. Levels records the
// ordered list of bound-variable scopes currently enclosing it (I4);
// empty means level 0 (outermost, always reachable).
type Term struct {
	ID      uint64
	Sort    *Sort
	IsValue bool
	IsVar   bool
	Levels  []uint32

	// Handle is the back-end's opaque term object.
	Handle solver.Term
}

// ReachableFrom reports whether t is selectable from the given current
// scope level, per I4: t's level list must be a prefix of currentLevel's.
func (t *Term) ReachableFrom(currentLevels []uint32) bool {
	if len(t.Levels) > len(currentLevels) {
		return false
	}
	for i, l := range t.Levels {
		if currentLevels[i] != l {
			return false
		}
	}
	return true
}

// Level0 reports whether t lives at the outermost (unquantified) scope.
func (t *Term) Level0() bool { return len(t.Levels) == 0 }
