package arena

import "github.com/jcorbin/scm/internal/value"

// RootPtr is a rooted handle: a reference-counted claim on an index that
// keeps it reachable for bookkeeping that outlives a single call frame
// (spec.md 4.1's root/drop_root pair). Roots do not move cells and do not
// affect Eq; they exist purely so long-lived holders (the global
// environment, a REPL's notion of "the last value") can be enumerated and,
// had this arena grown a mark-sweep pass, would be what that pass started
// from. The arena never collects today (spec's explicit Non-goal), so in
// practice Root/Drop is index-counting bookkeeping, not memory safety.
type RootPtr struct {
	a *Arena
	i value.Index
}

// Index returns the rooted index.
func (r RootPtr) Index() value.Index { return r.i }

// Root claims a root on i and returns a handle. Call Drop when done with it.
func (a *Arena) Root(i value.Index) RootPtr {
	a.roots[i]++
	return RootPtr{a: a, i: i}
}

// Drop releases one claim on the root. Dropping a zero-count root panics,
// since that indicates a double-drop bug in the caller.
func (r RootPtr) Drop() {
	n, ok := r.a.roots[r.i]
	if !ok || n == 0 {
		panic("arena: drop of a root not held")
	}
	if n == 1 {
		delete(r.a.roots, r.i)
	} else {
		r.a.roots[r.i] = n - 1
	}
}

// RootCount reports how many live root claims i currently holds, for tests
// and --dump introspection.
func (a *Arena) RootCount(i value.Index) int { return a.roots[i] }
