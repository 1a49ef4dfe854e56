package table

import (
	"github.com/meshforge/bmesh/core"
)

// Decoded table contents. Index fields are raw uint32 values; range
// validation against the other tables happens during reconstruction, where
// the full set of entity counts is known.

// VertexData is the decoded vertex table.
type VertexData struct {
	Positions     [][3]float32
	Normals       [][3]float32 // nil when absent
	IncidentEdges [][]uint32   // nil when absent
	Attrs         core.AttrSet
}

// EdgeData is the decoded edge table. ManifoldWarnings lists edges whose
// manifold byte was out of domain and was downgraded to unknown under the
// lenient policy.
type EdgeData struct {
	Verts            [][2]uint32
	AdjacentFaces    [][]uint32 // nil when absent
	Manifold         []core.ManifoldStatus
	Smooth           []bool
	ManifoldWarnings []int
	Attrs            core.AttrSet
}

// LoopRecord is one decoded 7-wide topology record.
type LoopRecord struct {
	Vert, Edge, Face       uint32
	Next, Prev             uint32
	RadialNext, RadialPrev uint32
}

// LoopData is the decoded loop table.
type LoopData struct {
	Records []LoopRecord
	UVs     [][2]float32 // nil when absent
	Attrs   core.AttrSet
}

// FaceData is the decoded face table.
type FaceData struct {
	Verts   [][]uint32
	Edges   [][]uint32 // element slices may be empty when not stored
	Loops   [][]uint32
	Normals [][3]float32 // nil when absent
	Smooth  []bool
	Attrs   core.AttrSet
}

// ReaderOptions controls decode policy.
type ReaderOptions struct {
	// StrictManifold turns an out-of-domain manifold byte into a fatal
	// error for the edge table. The default keeps the edge and downgrades
	// its status to unknown, recording a warning.
	StrictManifold bool
}

// Reader decodes explicit-layer tables. Input buffers are treated as
// immutable; decoded slices never alias them.
type Reader struct {
	opts ReaderOptions
}

// NewReader creates a Reader with the lenient manifold policy unless
// overridden.
func NewReader(optFns ...func(*ReaderOptions)) *Reader {
	var opts ReaderOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Reader{opts: opts}
}

// WithStrictManifold makes out-of-domain manifold bytes fatal.
func WithStrictManifold() func(*ReaderOptions) {
	return func(o *ReaderOptions) { o.StrictManifold = true }
}

// DecodeVertices decodes the vertex table.
func (r *Reader) DecodeVertices(t *VertexTable) (*VertexData, error) {
	if err := checkStride("vertex", "positions", t.Positions, t.Count, StrideVec3); err != nil {
		return nil, err
	}
	d := &VertexData{Positions: parseVec3s(t.Positions), Attrs: t.Attrs.Clone()}
	if t.Normals != nil {
		if err := checkStride("vertex", "normals", t.Normals, t.Count, StrideVec3); err != nil {
			return nil, err
		}
		d.Normals = parseVec3s(t.Normals)
	}
	if t.EdgeOffsets != nil {
		edges, err := unpackRagged(t.EdgePacked, t.EdgeOffsets, t.Count, "vertex", "edges")
		if err != nil {
			return nil, err
		}
		d.IncidentEdges = edges
	}
	return d, nil
}

// DecodeEdges decodes the edge table.
func (r *Reader) DecodeEdges(t *EdgeTable) (*EdgeData, error) {
	if err := checkStride("edge", "vertices", t.Verts, t.Count, StridePair); err != nil {
		return nil, err
	}
	d := &EdgeData{
		Verts: make([][2]uint32, t.Count),
		Attrs: t.Attrs.Clone(),
	}
	for i := 0; i < t.Count; i++ {
		d.Verts[i] = [2]uint32{u32At(t.Verts, i*2), u32At(t.Verts, i*2+1)}
	}
	if t.FaceOffsets != nil {
		faces, err := unpackRagged(t.FacePacked, t.FaceOffsets, t.Count, "edge", "faces")
		if err != nil {
			return nil, err
		}
		d.AdjacentFaces = faces
	}
	d.Manifold = make([]core.ManifoldStatus, t.Count)
	for i := range d.Manifold {
		d.Manifold[i] = core.ManifoldUnknown
	}
	if t.Manifold != nil {
		if err := checkStride("edge", "manifold", t.Manifold, t.Count, StrideByte); err != nil {
			return nil, err
		}
		for i, b := range t.Manifold {
			status := core.ManifoldStatus(b)
			if !status.Valid() {
				if r.opts.StrictManifold {
					return nil, &ErrManifoldByte{Edge: i, Value: b}
				}
				d.Manifold[i] = core.ManifoldUnknown
				d.ManifoldWarnings = append(d.ManifoldWarnings, i)
				continue
			}
			d.Manifold[i] = status
		}
	}
	if t.Smooth != nil {
		if err := checkStride("edge", "smooth", t.Smooth, t.Count, StrideByte); err != nil {
			return nil, err
		}
		d.Smooth = make([]bool, t.Count)
		for i, b := range t.Smooth {
			d.Smooth[i] = b != 0
		}
	}
	return d, nil
}

// DecodeLoops decodes the loop table.
func (r *Reader) DecodeLoops(t *LoopTable) (*LoopData, error) {
	if err := checkStride("loop", "topology", t.Topology, t.Count, StrideTopology); err != nil {
		return nil, err
	}
	d := &LoopData{Records: make([]LoopRecord, t.Count), Attrs: t.Attrs.Clone()}
	for i := 0; i < t.Count; i++ {
		base := i * 7
		d.Records[i] = LoopRecord{
			Vert:       u32At(t.Topology, base),
			Edge:       u32At(t.Topology, base+1),
			Face:       u32At(t.Topology, base+2),
			Next:       u32At(t.Topology, base+3),
			Prev:       u32At(t.Topology, base+4),
			RadialNext: u32At(t.Topology, base+5),
			RadialPrev: u32At(t.Topology, base+6),
		}
	}
	if t.UVs != nil {
		if err := checkStride("loop", "uvs", t.UVs, t.Count, StrideVec2); err != nil {
			return nil, err
		}
		d.UVs = parseVec2s(t.UVs)
	}
	return d, nil
}

// DecodeFaces decodes the face table. The 3-wide offset records are split
// into three plain offset arrays and each is validated like any other
// packed/offset pair.
func (r *Reader) DecodeFaces(t *FaceTable) (*FaceData, error) {
	wantOffsets := (t.Count + 1) * FaceOffsetWidth * 4
	if len(t.Offsets) != wantOffsets {
		return nil, &ErrFieldSize{Table: "face", Field: "offsets", Got: len(t.Offsets), Want: wantOffsets}
	}
	vertOffs := make([]byte, 0, (t.Count+1)*4)
	edgeOffs := make([]byte, 0, (t.Count+1)*4)
	loopOffs := make([]byte, 0, (t.Count+1)*4)
	for i := 0; i <= t.Count; i++ {
		base := i * FaceOffsetWidth
		vertOffs = appendU32(vertOffs, u32At(t.Offsets, base))
		edgeOffs = appendU32(edgeOffs, u32At(t.Offsets, base+1))
		loopOffs = appendU32(loopOffs, u32At(t.Offsets, base+2))
	}

	verts, err := unpackRagged(t.VertPacked, vertOffs, t.Count, "face", "vertices")
	if err != nil {
		return nil, err
	}
	edges, err := unpackRagged(t.EdgePacked, edgeOffs, t.Count, "face", "edges")
	if err != nil {
		return nil, err
	}
	loops, err := unpackRagged(t.LoopPacked, loopOffs, t.Count, "face", "loops")
	if err != nil {
		return nil, err
	}

	d := &FaceData{Verts: verts, Edges: edges, Loops: loops, Attrs: t.Attrs.Clone()}
	if t.Normals != nil {
		if err := checkStride("face", "normals", t.Normals, t.Count, StrideVec3); err != nil {
			return nil, err
		}
		d.Normals = parseVec3s(t.Normals)
	}
	if t.Smooth != nil {
		if err := checkStride("face", "smooth", t.Smooth, t.Count, StrideByte); err != nil {
			return nil, err
		}
		d.Smooth = make([]bool, t.Count)
		for i, b := range t.Smooth {
			d.Smooth[i] = b != 0
		}
	}
	return d, nil
}

func checkStride(tableName, fieldName string, b []byte, count, stride int) error {
	if len(b) != count*stride {
		return &ErrFieldSize{Table: tableName, Field: fieldName, Got: len(b), Want: count * stride}
	}
	return nil
}
