// Package table implements the explicit layer: the binary tables that carry
// the complete BMesh graph alongside the triangulated primitive.
//
// Four independently optional tables (vertex, edge, loop, face) each hold a
// set of named fields. Scalar fields are fixed-stride arrays in arena index
// order; variable-length adjacency is a packed array plus a monotonic
// offset array. All integers are unsigned 32-bit little-endian, floats are
// IEEE-754 32-bit little-endian, the manifold flag is one byte per edge
// restricted to {0, 1, 255}.
//
// Decoding validates layout strictly: non-monotonic offsets, a final offset
// that disagrees with the packed length, a field whose byte length
// contradicts the entity count, or a manifold byte outside its domain are
// malformed input, not data to be repaired.
package table

import (
	"fmt"

	"github.com/meshforge/bmesh/core"
)

// Field strides in bytes.
const (
	StrideVec3     = 12 // 3 x f32
	StrideVec2     = 8  // 2 x f32
	StrideIndex    = 4  // u32
	StridePair     = 8  // 2 x u32
	StrideTopology = 28 // 7 x u32: vert, edge, face, next, prev, radial next, radial prev
	StrideByte     = 1
	// FaceOffsetWidth is the per-record width of the face offsets field:
	// three independently packed arrays (vertices, edges, loops) share one
	// face-granularity offset record.
	FaceOffsetWidth = 3
)

// ErrMalformedOffsets reports an offset array that is not monotonically
// non-decreasing or whose final entry disagrees with its packed array.
type ErrMalformedOffsets struct {
	Table  string
	Field  string
	Index  int
	Reason string
}

func (e *ErrMalformedOffsets) Error() string {
	return fmt.Sprintf("table %s: field %s: offset %d: %s", e.Table, e.Field, e.Index, e.Reason)
}

// ErrFieldSize reports a fixed-stride field whose byte length contradicts
// the table's entity count.
type ErrFieldSize struct {
	Table string
	Field string
	Got   int
	Want  int
}

func (e *ErrFieldSize) Error() string {
	return fmt.Sprintf("table %s: field %s: %d bytes, want %d", e.Table, e.Field, e.Got, e.Want)
}

// ErrManifoldByte reports a manifold flag outside {0, 1, 255}. Under the
// default lenient policy the edge keeps decoding with unknown status; under
// the strict policy this error is fatal for the edge table.
type ErrManifoldByte struct {
	Edge  int
	Value byte
}

func (e *ErrManifoldByte) Error() string {
	return fmt.Sprintf("table edge: edge %d: manifold byte %d outside {0,1,255}", e.Edge, e.Value)
}

// Set is the explicit layer: any table may be nil, and absence of a table
// is a valid partial state that shifts that entity class onto the fallback
// reconstruction path.
type Set struct {
	Vertex *VertexTable
	Edge   *EdgeTable
	Loop   *LoopTable
	Face   *FaceTable
}

// IsEmpty reports whether no table is present at all.
func (s *Set) IsEmpty() bool {
	return s == nil || (s.Vertex == nil && s.Edge == nil && s.Loop == nil && s.Face == nil)
}

// Complete reports whether all four tables are present.
func (s *Set) Complete() bool {
	return s != nil && s.Vertex != nil && s.Edge != nil && s.Loop != nil && s.Face != nil
}

// VertexTable holds per-vertex fields. Positions is required; Normals and
// the incident-edge adjacency pair are optional.
type VertexTable struct {
	Count       int
	Positions   []byte // StrideVec3 per vertex
	Normals     []byte // StrideVec3 per vertex, optional
	EdgePacked  []byte // u32 elements, ragged
	EdgeOffsets []byte // u32 x (Count+1)
	Attrs       core.AttrSet
}

// EdgeTable holds per-edge fields. Verts is required; the adjacent-face
// pair, manifold flags and smooth flags are optional.
type EdgeTable struct {
	Count       int
	Verts       []byte // StridePair per edge
	FacePacked  []byte // u32 elements, ragged
	FaceOffsets []byte // u32 x (Count+1)
	Manifold    []byte // one byte per edge in {0,1,255}
	Smooth      []byte // one byte per edge, optional
	Attrs       core.AttrSet
}

// LoopTable holds per-loop fields. Topology is required and carries the
// complete navigation record, so a loop table never needs inference.
type LoopTable struct {
	Count    int
	Topology []byte // StrideTopology per loop
	UVs      []byte // StrideVec2 per loop, optional
	Attrs    core.AttrSet
}

// FaceTable holds per-face fields. The three packed arrays share one
// 3-wide offset record per face; record Count carries the three totals.
type FaceTable struct {
	Count      int
	VertPacked []byte // u32 elements, ragged
	EdgePacked []byte // u32 elements, ragged
	LoopPacked []byte // u32 elements, ragged
	Offsets    []byte // u32 x FaceOffsetWidth x (Count+1)
	Normals    []byte // StrideVec3 per face, optional
	Smooth     []byte // one byte per face, optional
	Attrs      core.AttrSet
}
