// Package core holds the BMesh arena: vertex, edge, loop and face records
// referenced by dense integer index, plus the builder operations that keep
// the cross-reference graph (loop cycles, radial chains, reverse adjacency)
// consistent while it grows.
//
// # Ownership model
//
// One Mesh owns every record of one mesh. A Mesh is not safe for concurrent
// mutation; distinct meshes are fully independent and may be built, encoded
// and decoded in parallel as long as each Mesh is exclusively owned by one
// worker for its lifetime. Destruction is whole-graph: drop the Mesh, no
// entity is individually freed.
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFaceTooShort is returned when a face has fewer than three vertices.
	ErrFaceTooShort = errors.New("core: face needs at least 3 vertices")
	// ErrRepeatedVertex is returned when a face references the same vertex twice.
	ErrRepeatedVertex = errors.New("core: face repeats a vertex")
	// ErrUnknownVertex is returned when an index references no vertex in the arena.
	ErrUnknownVertex = errors.New("core: vertex index out of range")
	// ErrSelfLoop is returned when an edge would connect a vertex to itself.
	ErrSelfLoop = errors.New("core: edge endpoints are equal")
)

// Vertex is a point record. Edges is the reverse-adjacency list of incident
// edges in discovery order; it is populated as edges are created.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	Edges    []EdgeID
}

// Edge connects two vertices. Faces is the reverse-adjacency list of
// adjacent faces; its length determines manifoldness (1 boundary,
// 2 manifold interior, >2 non-manifold). Loop is the entry point into the
// radial cycle of loops sharing this edge, or InvalidLoop for a wire edge.
type Edge struct {
	Verts    [2]VertexID
	Faces    []FaceID
	Loop     LoopID
	Manifold ManifoldStatus
	Smooth   bool
}

// Loop is a face-corner record: the vertex at the corner, the edge leaving
// that vertex within the face, the owning face, and two independent
// circular chains. Next/Prev cycle over the loops of one face in winding
// order; RadialNext/RadialPrev cycle over the loops of all faces sharing
// the edge.
type Loop struct {
	Vert VertexID
	Edge EdgeID
	Face FaceID

	Next, Prev             LoopID
	RadialNext, RadialPrev LoopID

	UV [2]float32
}

// Face is an ordered polygon boundary. Verts defines winding; Edges and
// Loops run parallel to it (Edges[i] connects Verts[i] to Verts[(i+1)%n],
// Loops[i] sits at corner i).
type Face struct {
	Verts  []VertexID
	Edges  []EdgeID
	Loops  []LoopID
	Normal [3]float32
	Smooth bool
}

// Mesh is the arena. All topology records of one mesh live here and
// reference each other by index only.
type Mesh struct {
	Verts []Vertex
	Edges []Edge
	Loops []Loop
	Faces []Face

	// HasUVs marks whether the per-loop UV field carries data.
	HasUVs bool

	// Opaque attribute side-channels per entity class, carried through
	// the codec uninterpreted.
	VertexAttrs AttrSet
	EdgeAttrs   AttrSet
	LoopAttrs   AttrSet
	FaceAttrs   AttrSet

	edgeIndex map[edgeKey]EdgeID
}

type edgeKey struct{ lo, hi VertexID }

func keyOf(a, b VertexID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// NewMesh returns an empty arena.
func NewMesh() *Mesh {
	return &Mesh{edgeIndex: make(map[edgeKey]EdgeID)}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(position [3]float32) VertexID {
	m.Verts = append(m.Verts, Vertex{Position: position})
	return VertexID(len(m.Verts) - 1)
}

// FindEdge returns the edge connecting a and b, if one exists. The pair is
// unordered.
func (m *Mesh) FindEdge(a, b VertexID) (EdgeID, bool) {
	e, ok := m.edgeIndex[keyOf(a, b)]
	return e, ok
}

// AddEdge returns the edge connecting a and b, creating it if absent. The
// stored vertex order is the order of first creation.
func (m *Mesh) AddEdge(a, b VertexID) (EdgeID, error) {
	if int(a) >= len(m.Verts) || int(b) >= len(m.Verts) {
		return InvalidEdge, fmt.Errorf("%w: (%d, %d) with %d vertices", ErrUnknownVertex, a, b, len(m.Verts))
	}
	if a == b {
		return InvalidEdge, fmt.Errorf("%w: vertex %d", ErrSelfLoop, a)
	}
	if e, ok := m.edgeIndex[keyOf(a, b)]; ok {
		return e, nil
	}
	e := EdgeID(len(m.Edges))
	m.Edges = append(m.Edges, Edge{
		Verts:    [2]VertexID{a, b},
		Loop:     InvalidLoop,
		Manifold: ManifoldUnknown,
		Smooth:   true,
	})
	m.edgeIndex[keyOf(a, b)] = e
	m.Verts[a].Edges = append(m.Verts[a].Edges, e)
	m.Verts[b].Edges = append(m.Verts[b].Edges, e)
	return e, nil
}

// AddFace appends a polygon over the given vertex cycle, creating its
// loops, finding or creating its boundary edges, linking the face loop
// cycle and splicing each loop into its edge's radial cycle.
//
// The vertex sequence must have length >= 3 and contain no repeats; winding
// is taken as given.
func (m *Mesh) AddFace(verts ...VertexID) (FaceID, error) {
	n := len(verts)
	if n < 3 {
		return InvalidFace, fmt.Errorf("%w: got %d", ErrFaceTooShort, n)
	}
	for i := 0; i < n; i++ {
		if int(verts[i]) >= len(m.Verts) {
			return InvalidFace, fmt.Errorf("%w: %d with %d vertices", ErrUnknownVertex, verts[i], len(m.Verts))
		}
		for j := i + 1; j < n; j++ {
			if verts[i] == verts[j] {
				return InvalidFace, fmt.Errorf("%w: vertex %d at corners %d and %d", ErrRepeatedVertex, verts[i], i, j)
			}
		}
	}

	f := FaceID(len(m.Faces))
	face := Face{
		Verts: append([]VertexID(nil), verts...),
		Edges: make([]EdgeID, 0, n),
		Loops: make([]LoopID, 0, n),
	}

	base := LoopID(len(m.Loops))
	for i := 0; i < n; i++ {
		e, err := m.AddEdge(verts[i], verts[(i+1)%n])
		if err != nil {
			return InvalidFace, err
		}
		face.Edges = append(face.Edges, e)
		face.Loops = append(face.Loops, base+LoopID(i))
		m.Loops = append(m.Loops, Loop{Vert: verts[i], Edge: e, Face: f})
	}

	// Face-local cycle: Next follows winding order.
	for i := 0; i < n; i++ {
		l := base + LoopID(i)
		m.Loops[l].Next = base + LoopID((i+1)%n)
		m.Loops[l].Prev = base + LoopID((i+n-1)%n)
	}

	// Radial cycles: insert each new loop before the edge's entry loop,
	// i.e. after the current terminal loop, keeping the cycle closed.
	for i := 0; i < n; i++ {
		l := base + LoopID(i)
		m.spliceRadial(face.Edges[i], l)
		m.Edges[face.Edges[i]].Faces = append(m.Edges[face.Edges[i]].Faces, f)
	}

	m.Faces = append(m.Faces, face)
	return f, nil
}

func (m *Mesh) spliceRadial(e EdgeID, l LoopID) {
	entry := m.Edges[e].Loop
	if entry == InvalidLoop {
		m.Loops[l].RadialNext = l
		m.Loops[l].RadialPrev = l
		m.Edges[e].Loop = l
		return
	}
	last := m.Loops[entry].RadialPrev
	m.Loops[l].RadialNext = entry
	m.Loops[l].RadialPrev = last
	m.Loops[last].RadialNext = l
	m.Loops[entry].RadialPrev = l
}

// RebuildEdgeIndex recreates the vertex-pair lookup from the Edges slice.
// Loaders that fill the arena's slices directly call this once so FindEdge
// and AddEdge see the loaded records. When two edge records connect the same
// vertex pair the lookup keeps the lower index; the indices of the duplicate
// records are returned so the caller can report them.
func (m *Mesh) RebuildEdgeIndex() []EdgeID {
	m.edgeIndex = make(map[edgeKey]EdgeID, len(m.Edges))
	var dups []EdgeID
	for e := range m.Edges {
		k := keyOf(m.Edges[e].Verts[0], m.Edges[e].Verts[1])
		if _, ok := m.edgeIndex[k]; ok {
			dups = append(dups, EdgeID(e))
			continue
		}
		m.edgeIndex[k] = EdgeID(e)
	}
	return dups
}

// RadialLoops walks the radial cycle of e and returns its members starting
// at the edge's entry loop. The walk is bounded by the arena's loop count
// so a corrupted cycle cannot loop forever.
func (m *Mesh) RadialLoops(e EdgeID) []LoopID {
	entry := m.Edges[e].Loop
	if entry == InvalidLoop {
		return nil
	}
	var out []LoopID
	l := entry
	for range m.Loops {
		out = append(out, l)
		l = m.Loops[l].RadialNext
		if l == entry {
			return out
		}
		if int(l) >= len(m.Loops) {
			break
		}
	}
	return out
}

// ClassifyManifold derives the tri-state manifold classification for every
// edge from its current adjacency: confirmed manifold requires exactly two
// adjacent faces traversing the edge in opposite directions, anything else
// is confirmed non-manifold.
func (m *Mesh) ClassifyManifold() {
	for e := range m.Edges {
		edge := &m.Edges[e]
		if len(edge.Faces) != 2 {
			edge.Manifold = NonManifold
			continue
		}
		l1 := edge.Loop
		l2 := m.Loops[l1].RadialNext
		if l1 == l2 || m.Loops[l1].Vert == m.Loops[l2].Vert {
			// Same traversal direction on both faces: inconsistent winding.
			edge.Manifold = NonManifold
			continue
		}
		edge.Manifold = Manifold
	}
}
