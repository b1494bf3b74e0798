package mapping

import "bytes"

// Replacement is either unresolved (awaiting an operator decision) or a
// resolved byte sequence. The zero value is unresolved.
type Replacement struct {
	value    []byte
	resolved bool
}

// Unresolved returns the replacement that marks a mapping as still to do.
func Unresolved() Replacement {
	return Replacement{}
}

// Resolved returns a replacement with the given bytes. An empty value means
// the bad sequence is deleted.
func Resolved(value []byte) Replacement {
	if value == nil {
		value = []byte{}
	}
	return Replacement{value: bytes.Clone(value), resolved: true}
}

// IsResolved reports whether a replacement value is present.
func (r Replacement) IsResolved() bool {
	return r.resolved
}

// Value returns the replacement bytes and whether the replacement is
// resolved.
func (r Replacement) Value() ([]byte, bool) {
	return r.value, r.resolved
}

// Equal reports whether both replacements are in the same state with the
// same bytes.
func (r Replacement) Equal(other Replacement) bool {
	return r.resolved == other.resolved && bytes.Equal(r.value, other.value)
}

func (r Replacement) String() string {
	if !r.resolved {
		return TodoMarker
	}
	return string(r.value)
}

// Mapping is one replacement rule.
type Mapping struct {
	// ID is the 1-based insertion index; it fixes the persisted order.
	ID int

	// Bad is the exact byte sequence to replace. Never empty, unique
	// within a table.
	Bad []byte

	Replacement Replacement
}

// Resolved reports whether the mapping has a replacement.
func (m Mapping) Resolved() bool {
	return m.Replacement.IsResolved()
}

// Equal reports whether two mappings have the same id, bad sequence and
// replacement.
func (m Mapping) Equal(other Mapping) bool {
	return m.ID == other.ID && bytes.Equal(m.Bad, other.Bad) && m.Replacement.Equal(other.Replacement)
}
