package attr

import (
	"maps"
	"slices"
)

// Map holds attribute values keyed by attribute name.
type Map map[string]Value

// Clone returns a shallow copy of m. Values are immutable, so a shallow copy
// is enough to guarantee the original is never mutated through the result.
func (m Map) Clone() Map {
	if m == nil {
		return Map{}
	}
	return maps.Clone(m)
}

// Has reports whether name is present in m.
func (m Map) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Keys returns the attribute names in sorted order.
func (m Map) Keys() []string {
	return slices.Sorted(maps.Keys(m))
}
