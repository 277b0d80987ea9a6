package domain

import "strconv"

// IDSet is a set of identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from the given ids.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s IDSet) Add(id string) {
	s[id] = struct{}{}
}

// NextID returns prefix_N for the smallest N >= 1 not present in existing.
// It is a pure function of its arguments.
func NextID(prefix string, existing IDSet) string {
	for n := 1; ; n++ {
		id := prefix + "_" + strconv.Itoa(n)
		if !existing.Has(id) {
			return id
		}
	}
}

// UniqueID returns candidate when it is free, otherwise NextID(candidate, existing).
func UniqueID(candidate string, existing IDSet) string {
	if candidate != "" && !existing.Has(candidate) {
		return candidate
	}
	if candidate == "" {
		candidate = "id"
	}
	return NextID(candidate, existing)
}
