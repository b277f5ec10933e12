package archon

import "math/bits"

// Signature is a 64-bit mask whose bit i is set iff the component with
// type_id i is present. It is the key used to partition entities into
// archetypes and the include/exclude mask a Query matches against.
//
// A Signature is a plain value: intersection, union, and subset tests
// are single machine instructions, and it is comparable, so it can be
// used directly as a map key when looking up an archetype by its
// component set.
type Signature uint64

// With returns the signature with bit id set.
func (s Signature) With(id ComponentID) Signature {
	return s | (1 << uint(id))
}

// Without returns the signature with bit id cleared.
func (s Signature) Without(id ComponentID) Signature {
	return s &^ (1 << uint(id))
}

// Has reports whether bit id is set.
func (s Signature) Has(id ComponentID) bool {
	return s&(1<<uint(id)) != 0
}

// ContainsAll reports whether every bit set in other is also set in s.
func (s Signature) ContainsAll(other Signature) bool {
	return s&other == other
}

// Disjoint reports whether s and other share no set bits.
func (s Signature) Disjoint(other Signature) bool {
	return s&other == 0
}

// Len returns the number of set bits (the number of distinct component
// types named by this signature).
func (s Signature) Len() int {
	return bits.OnesCount64(uint64(s))
}

// components returns the component ids named by this signature, in
// ascending order. Archetype layout is always dense in ascending
// type_id, so this order is also chunk column order.
func (s Signature) components() []ComponentID {
	ids := make([]ComponentID, 0, s.Len())
	for b := s; b != 0; b &= b - 1 {
		id := ComponentID(bits.TrailingZeros64(uint64(b)))
		ids = append(ids, id)
	}
	return ids
}
