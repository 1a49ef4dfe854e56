package reconstruct

import (
	"github.com/meshforge/bmesh/core"
	"github.com/meshforge/bmesh/table"
)

// loadExplicit builds the arena straight from the four tables. Loop records
// already carry the complete navigation graph, so nothing is inferred; the
// loader validates every index field against the entity counts, copies the
// records across, and back-fills the reverse adjacency the tables omitted.
func (r *Reconstructor) loadExplicit(set *table.Set) (*Result, error) {
	vd, err := r.reader.DecodeVertices(set.Vertex)
	if err != nil {
		return nil, err
	}
	ed, err := r.reader.DecodeEdges(set.Edge)
	if err != nil {
		return nil, err
	}
	ld, err := r.reader.DecodeLoops(set.Loop)
	if err != nil {
		return nil, err
	}
	fd, err := r.reader.DecodeFaces(set.Face)
	if err != nil {
		return nil, err
	}

	nv, ne, nl, nf := len(vd.Positions), len(ed.Verts), len(ld.Records), len(fd.Verts)
	if err := checkIndices(vd, ed, ld, fd, nv, ne, nl, nf); err != nil {
		return nil, err
	}

	var warnings []Warning
	for _, e := range ed.ManifoldWarnings {
		warnings = append(warnings, Warning{
			Code:   WarnManifoldOutOfDomain,
			Entity: e,
			Detail: "manifold byte outside {0,1,255}, downgraded to unknown",
		})
	}

	m := core.NewMesh()
	m.VertexAttrs = vd.Attrs
	m.EdgeAttrs = ed.Attrs
	m.LoopAttrs = ld.Attrs
	m.FaceAttrs = fd.Attrs

	m.Verts = make([]core.Vertex, nv)
	for i := range m.Verts {
		m.Verts[i].Position = vd.Positions[i]
		if vd.Normals != nil {
			m.Verts[i].Normal = vd.Normals[i]
		}
		if vd.IncidentEdges != nil {
			m.Verts[i].Edges = idsFromU32[core.EdgeID](vd.IncidentEdges[i])
		}
	}

	m.Edges = make([]core.Edge, ne)
	for i := range m.Edges {
		e := &m.Edges[i]
		e.Verts = [2]core.VertexID{core.VertexID(ed.Verts[i][0]), core.VertexID(ed.Verts[i][1])}
		e.Loop = core.InvalidLoop
		e.Manifold = ed.Manifold[i]
		e.Smooth = true
		if ed.Smooth != nil {
			e.Smooth = ed.Smooth[i]
		}
		if ed.AdjacentFaces != nil {
			e.Faces = idsFromU32[core.FaceID](ed.AdjacentFaces[i])
		}
	}

	m.Loops = make([]core.Loop, nl)
	for i := range m.Loops {
		rec := ld.Records[i]
		m.Loops[i] = core.Loop{
			Vert:       core.VertexID(rec.Vert),
			Edge:       core.EdgeID(rec.Edge),
			Face:       core.FaceID(rec.Face),
			Next:       core.LoopID(rec.Next),
			Prev:       core.LoopID(rec.Prev),
			RadialNext: core.LoopID(rec.RadialNext),
			RadialPrev: core.LoopID(rec.RadialPrev),
		}
		if ld.UVs != nil {
			m.Loops[i].UV = ld.UVs[i]
		}
	}
	m.HasUVs = ld.UVs != nil

	m.Faces = make([]core.Face, nf)
	for i := range m.Faces {
		f := &m.Faces[i]
		f.Verts = idsFromU32[core.VertexID](fd.Verts[i])
		f.Edges = idsFromU32[core.EdgeID](fd.Edges[i])
		f.Loops = idsFromU32[core.LoopID](fd.Loops[i])
		if fd.Normals != nil {
			f.Normal = fd.Normals[i]
		}
		if fd.Smooth != nil {
			f.Smooth = fd.Smooth[i]
		}
	}

	backfill(m, vd.IncidentEdges == nil, ed.AdjacentFaces == nil)

	for _, dup := range m.RebuildEdgeIndex() {
		warnings = append(warnings, Warning{
			Code:   WarnDuplicateEdge,
			Entity: int(dup),
			Detail: "edge record duplicates an earlier vertex pair",
		})
	}
	return &Result{Mesh: m, Strategy: StrategyFull, Warnings: warnings}, nil
}

// backfill completes the relations the tables may not store: the radial
// entry point per edge, vertex incident-edge lists and edge adjacent-face
// lists. One scan over edges, one over loops.
func backfill(m *core.Mesh, fillVertEdges, fillEdgeFaces bool) {
	if fillVertEdges {
		for e := range m.Edges {
			m.Verts[m.Edges[e].Verts[0]].Edges = append(m.Verts[m.Edges[e].Verts[0]].Edges, core.EdgeID(e))
			m.Verts[m.Edges[e].Verts[1]].Edges = append(m.Verts[m.Edges[e].Verts[1]].Edges, core.EdgeID(e))
		}
	}
	for l := range m.Loops {
		e := m.Loops[l].Edge
		if m.Edges[e].Loop == core.InvalidLoop {
			m.Edges[e].Loop = core.LoopID(l)
		}
		if fillEdgeFaces {
			m.Edges[e].Faces = append(m.Edges[e].Faces, m.Loops[l].Face)
		}
	}
}

func checkIndices(vd *table.VertexData, ed *table.EdgeData, ld *table.LoopData, fd *table.FaceData, nv, ne, nl, nf int) error {
	check := func(tbl, field string, entity int, idx uint32, limit int) error {
		if int(idx) >= limit {
			return &ErrDanglingIndex{Table: tbl, Field: field, Entity: entity, Index: idx, Limit: limit}
		}
		return nil
	}
	if vd.IncidentEdges != nil {
		for i, edges := range vd.IncidentEdges {
			for _, e := range edges {
				if err := check("vertex", "edges", i, e, ne); err != nil {
					return err
				}
			}
		}
	}
	for i, pair := range ed.Verts {
		if err := check("edge", "vertices", i, pair[0], nv); err != nil {
			return err
		}
		if err := check("edge", "vertices", i, pair[1], nv); err != nil {
			return err
		}
	}
	if ed.AdjacentFaces != nil {
		for i, faces := range ed.AdjacentFaces {
			for _, f := range faces {
				if err := check("edge", "faces", i, f, nf); err != nil {
					return err
				}
			}
		}
	}
	for i, rec := range ld.Records {
		if err := check("loop", "vertex", i, rec.Vert, nv); err != nil {
			return err
		}
		if err := check("loop", "edge", i, rec.Edge, ne); err != nil {
			return err
		}
		if err := check("loop", "face", i, rec.Face, nf); err != nil {
			return err
		}
		if err := check("loop", "next", i, rec.Next, nl); err != nil {
			return err
		}
		if err := check("loop", "prev", i, rec.Prev, nl); err != nil {
			return err
		}
		if err := check("loop", "radial_next", i, rec.RadialNext, nl); err != nil {
			return err
		}
		if err := check("loop", "radial_prev", i, rec.RadialPrev, nl); err != nil {
			return err
		}
	}
	for i := range fd.Verts {
		for _, v := range fd.Verts[i] {
			if err := check("face", "vertices", i, v, nv); err != nil {
				return err
			}
		}
		for _, e := range fd.Edges[i] {
			if err := check("face", "edges", i, e, ne); err != nil {
				return err
			}
		}
		for _, l := range fd.Loops[i] {
			if err := check("face", "loops", i, l, nl); err != nil {
				return err
			}
		}
	}
	return nil
}

func idsFromU32[T ~uint32](raw []uint32) []T {
	out := make([]T, len(raw))
	for i, v := range raw {
		out[i] = T(v)
	}
	return out
}
