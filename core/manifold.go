package core

import "fmt"

// ManifoldStatus is the tri-state manifold classification of an edge.
//
// The numeric values are the wire encoding (one byte per edge); keep them
// stable. Any byte outside this set is malformed input, never clamped.
type ManifoldStatus uint8

const (
	// NonManifold marks an edge confirmed non-manifold: its adjacent face
	// count differs from two, or the two faces disagree on orientation.
	NonManifold ManifoldStatus = 0
	// Manifold marks an edge confirmed manifold: exactly two adjacent
	// faces with consistent orientation.
	Manifold ManifoldStatus = 1
	// ManifoldUnknown asserts nothing about the edge. It must never be
	// treated as a guarantee in either direction.
	ManifoldUnknown ManifoldStatus = 255
)

// Valid reports whether s is one of the three encodable states.
func (s ManifoldStatus) Valid() bool {
	return s == NonManifold || s == Manifold || s == ManifoldUnknown
}

func (s ManifoldStatus) String() string {
	switch s {
	case NonManifold:
		return "non-manifold"
	case Manifold:
		return "manifold"
	case ManifoldUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(s))
	}
}
