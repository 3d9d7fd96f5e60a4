package qualname

import "sort"

// Set is an unordered collection of qualified names, usable directly because
// QualName is comparable.
type Set map[QualName]struct{}

// NewSet builds a set from the given names.
func NewSet(names ...QualName) Set {
	s := make(Set, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// Add inserts name and reports whether it was absent.
func (s Set) Add(name QualName) bool {
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = struct{}{}
	return true
}

// Has reports membership.
func (s Set) Has(name QualName) bool {
	_, ok := s[name]
	return ok
}

// AddAll inserts every name of other and reports whether s grew.
func (s Set) AddAll(other Set) bool {
	grew := false
	for name := range other {
		if s.Add(name) {
			grew = true
		}
	}
	return grew
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for name := range s {
		out[name] = struct{}{}
	}
	return out
}

// Diff returns s without the members of other.
func (s Set) Diff(other Set) Set {
	out := make(Set)
	for name := range s {
		if !other.Has(name) {
			out[name] = struct{}{}
		}
	}
	return out
}

// Union returns a new set with the members of both.
func (s Set) Union(other Set) Set {
	out := s.Clone()
	out.AddAll(other)
	return out
}

// Equal reports whether both sets hold exactly the same names.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for name := range s {
		if !other.Has(name) {
			return false
		}
	}
	return true
}

// Sorted returns the canonical forms in lexical order, for deterministic
// diagnostics and reports.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name.String())
	}
	sort.Strings(out)
	return out
}
