package table

import (
	"github.com/meshforge/bmesh/core"
)

// WriterOptions controls which optional fields the writer emits. Required
// fields are always written.
type WriterOptions struct {
	// IncludeManifold emits the per-edge tri-state manifold flags.
	IncludeManifold bool
	// IncludeNormals emits vertex and face normals.
	IncludeNormals bool
	// IncludeAdjacency emits the reverse-adjacency pairs (vertex incident
	// edges, edge adjacent faces). Decoders can back-fill these from the
	// forward references, so dropping them only costs decode work.
	IncludeAdjacency bool
	// IncludeSmooth emits edge and face smooth flags.
	IncludeSmooth bool
}

// Writer serializes a completed arena into the explicit-layer tables.
type Writer struct {
	opts WriterOptions
}

// NewWriter creates a Writer. All optional fields are emitted by default.
func NewWriter(optFns ...func(*WriterOptions)) *Writer {
	opts := WriterOptions{
		IncludeManifold:  true,
		IncludeNormals:   true,
		IncludeAdjacency: true,
		IncludeSmooth:    true,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Writer{opts: opts}
}

// Encode produces the four tables from the arena. Encoding is pure and
// deterministic; the input mesh is not modified.
func (w *Writer) Encode(m *core.Mesh) *Set {
	return &Set{
		Vertex: w.encodeVertices(m),
		Edge:   w.encodeEdges(m),
		Loop:   w.encodeLoops(m),
		Face:   w.encodeFaces(m),
	}
}

func (w *Writer) encodeVertices(m *core.Mesh) *VertexTable {
	if len(m.Verts) == 0 {
		return nil
	}
	t := &VertexTable{Count: len(m.Verts), Attrs: m.VertexAttrs.Clone()}
	t.Positions = make([]byte, 0, len(m.Verts)*StrideVec3)
	for i := range m.Verts {
		t.Positions = appendVec3(t.Positions, m.Verts[i].Position)
	}
	if w.opts.IncludeNormals {
		t.Normals = make([]byte, 0, len(m.Verts)*StrideVec3)
		for i := range m.Verts {
			t.Normals = appendVec3(t.Normals, m.Verts[i].Normal)
		}
	}
	if w.opts.IncludeAdjacency {
		lists := make([][]uint32, len(m.Verts))
		for i := range m.Verts {
			lists[i] = idsToU32(m.Verts[i].Edges)
		}
		t.EdgePacked, t.EdgeOffsets = packRagged(lists)
	}
	return t
}

func (w *Writer) encodeEdges(m *core.Mesh) *EdgeTable {
	if len(m.Edges) == 0 {
		return nil
	}
	t := &EdgeTable{Count: len(m.Edges), Attrs: m.EdgeAttrs.Clone()}
	t.Verts = make([]byte, 0, len(m.Edges)*StridePair)
	for i := range m.Edges {
		t.Verts = appendU32(t.Verts, uint32(m.Edges[i].Verts[0]))
		t.Verts = appendU32(t.Verts, uint32(m.Edges[i].Verts[1]))
	}
	if w.opts.IncludeAdjacency {
		lists := make([][]uint32, len(m.Edges))
		for i := range m.Edges {
			lists[i] = idsToU32(m.Edges[i].Faces)
		}
		t.FacePacked, t.FaceOffsets = packRagged(lists)
	}
	if w.opts.IncludeManifold {
		t.Manifold = make([]byte, len(m.Edges))
		for i := range m.Edges {
			t.Manifold[i] = byte(m.Edges[i].Manifold)
		}
	}
	if w.opts.IncludeSmooth {
		t.Smooth = make([]byte, len(m.Edges))
		for i := range m.Edges {
			if m.Edges[i].Smooth {
				t.Smooth[i] = 1
			}
		}
	}
	return t
}

func (w *Writer) encodeLoops(m *core.Mesh) *LoopTable {
	if len(m.Loops) == 0 {
		return nil
	}
	t := &LoopTable{Count: len(m.Loops), Attrs: m.LoopAttrs.Clone()}
	t.Topology = make([]byte, 0, len(m.Loops)*StrideTopology)
	for i := range m.Loops {
		l := &m.Loops[i]
		t.Topology = appendU32(t.Topology, uint32(l.Vert))
		t.Topology = appendU32(t.Topology, uint32(l.Edge))
		t.Topology = appendU32(t.Topology, uint32(l.Face))
		t.Topology = appendU32(t.Topology, uint32(l.Next))
		t.Topology = appendU32(t.Topology, uint32(l.Prev))
		t.Topology = appendU32(t.Topology, uint32(l.RadialNext))
		t.Topology = appendU32(t.Topology, uint32(l.RadialPrev))
	}
	if m.HasUVs {
		t.UVs = make([]byte, 0, len(m.Loops)*StrideVec2)
		for i := range m.Loops {
			t.UVs = appendVec2(t.UVs, m.Loops[i].UV)
		}
	}
	return t
}

func (w *Writer) encodeFaces(m *core.Mesh) *FaceTable {
	if len(m.Faces) == 0 {
		return nil
	}
	t := &FaceTable{Count: len(m.Faces), Attrs: m.FaceAttrs.Clone()}

	// The three packed arrays share one 3-wide offset record per face; the
	// final record carries the three totals.
	var vertPos, edgePos, loopPos uint32
	t.Offsets = make([]byte, 0, (len(m.Faces)+1)*FaceOffsetWidth*4)
	for i := range m.Faces {
		f := &m.Faces[i]
		t.Offsets = appendU32(t.Offsets, vertPos)
		t.Offsets = appendU32(t.Offsets, edgePos)
		t.Offsets = appendU32(t.Offsets, loopPos)
		for _, v := range f.Verts {
			t.VertPacked = appendU32(t.VertPacked, uint32(v))
		}
		for _, e := range f.Edges {
			t.EdgePacked = appendU32(t.EdgePacked, uint32(e))
		}
		for _, l := range f.Loops {
			t.LoopPacked = appendU32(t.LoopPacked, uint32(l))
		}
		vertPos += uint32(len(f.Verts))
		edgePos += uint32(len(f.Edges))
		loopPos += uint32(len(f.Loops))
	}
	t.Offsets = appendU32(t.Offsets, vertPos)
	t.Offsets = appendU32(t.Offsets, edgePos)
	t.Offsets = appendU32(t.Offsets, loopPos)

	if w.opts.IncludeNormals {
		t.Normals = make([]byte, 0, len(m.Faces)*StrideVec3)
		for i := range m.Faces {
			t.Normals = appendVec3(t.Normals, m.Faces[i].Normal)
		}
	}
	if w.opts.IncludeSmooth {
		t.Smooth = make([]byte, len(m.Faces))
		for i := range m.Faces {
			if m.Faces[i].Smooth {
				t.Smooth[i] = 1
			}
		}
	}
	return t
}

func idsToU32[T ~uint32](ids []T) []uint32 {
	out := make([]uint32, len(ids))
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out
}
