package metadata

import "sort"

// NameSet is an immutable set of names.
// The zero value is an empty set.
type NameSet struct {
	names map[string]struct{}
}

// NewNameSet returns a set holding the given names, duplicates collapsed.
func NewNameSet(names ...string) NameSet {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return NameSet{names: m}
}

// Has returns true if name is in the set.
func (ns NameSet) Has(name string) bool {
	_, has := ns.names[name]
	return has
}

func (ns NameSet) Len() int {
	return len(ns.names)
}

// Names returns the names in sorted order.
// The returned slice is a copy.
func (ns NameSet) Names() []string {
	ret := make([]string, 0, len(ns.names))
	for n := range ns.names {
		ret = append(ret, n)
	}
	sort.Strings(ret)
	return ret
}

// Equal returns true if both sets hold the same names.
func (ns NameSet) Equal(other NameSet) bool {
	if len(ns.names) != len(other.names) {
		return false
	}
	for n := range ns.names {
		if !other.Has(n) {
			return false
		}
	}
	return true
}
