package arena

import "github.com/jcorbin/scm/internal/value"

// ListToSlice walks a proper list and returns its elements. It returns
// false if i is not a proper, nil-terminated list.
func (a *Arena) ListToSlice(i value.Index) ([]value.Index, bool) {
	var out []value.Index
	for i != a.empty {
		c := a.Get(i)
		if c.Kind != value.KindPair {
			return nil, false
		}
		out = append(out, c.Pair.Car)
		i = c.Pair.Cdr
	}
	return out, true
}

// SliceToList builds a proper list from elements, innermost (last) cons
// first, so that elements[0] ends up as the resulting list's car.
func (a *Arena) SliceToList(elements []value.Index) value.Index {
	list := a.empty
	for i := len(elements) - 1; i >= 0; i-- {
		list = a.NewPair(elements[i], list)
	}
	return list
}

// ListLength returns the length of a proper list, or false if improper.
func (a *Arena) ListLength(i value.Index) (int, bool) {
	n := 0
	for i != a.empty {
		c := a.Get(i)
		if c.Kind != value.KindPair {
			return 0, false
		}
		n++
		i = c.Pair.Cdr
	}
	return n, true
}
