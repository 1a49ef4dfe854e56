package reconstruct

import (
	"github.com/meshforge/bmesh/core"
	"github.com/meshforge/bmesh/fan"
	"github.com/meshforge/bmesh/table"
)

// regrow rebuilds topology through the core builder instead of loading it.
// Faces come from the face table when one decodes, otherwise from the
// triangle stream; edges, loops and radial chains are synthesized afresh by
// AddFace. Whatever other tables are present and well-formed enrich the
// regrown graph afterwards.
func (r *Reconstructor) regrow(in Input, set *table.Set) (*core.Mesh, []Warning, error) {
	var warnings []Warning

	faces, w, err := r.faceSource(in, set)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, w...)

	positions := in.Positions
	normals := [][3]float32(nil)
	var vertexAttrs core.AttrSet
	if set != nil && set.Vertex != nil {
		vd, derr := r.reader.DecodeVertices(set.Vertex)
		if derr != nil {
			warnings = append(warnings, discarded("vertex", derr))
		} else {
			positions = vd.Positions
			normals = vd.Normals
			vertexAttrs = vd.Attrs
		}
	}
	if positions == nil {
		if maxIndex(faces) >= 0 {
			return nil, nil, ErrNoGeometry
		}
		positions = [][3]float32{}
	}
	if hi := maxIndex(faces); hi >= len(positions) {
		return nil, nil, &ErrDanglingIndex{
			Table: "implicit", Field: "vertices",
			Entity: -1, Index: uint32(hi), Limit: len(positions),
		}
	}

	m := core.NewMesh()
	m.VertexAttrs = vertexAttrs
	for i, p := range positions {
		v := m.AddVertex(p)
		if normals != nil {
			m.Verts[v].Normal = normals[i]
		}
	}
	for _, face := range faces {
		if _, err := m.AddFace(idsFromU32[core.VertexID](face)...); err != nil {
			return nil, nil, err
		}
	}

	if set != nil && set.Edge != nil {
		w = r.applyEdgeTable(m, set)
		warnings = append(warnings, w...)
	} else {
		m.ClassifyManifold()
	}
	if set != nil && set.Loop != nil {
		w = r.applyLoopTable(m, set)
		warnings = append(warnings, w...)
	}
	if set != nil && set.Face != nil {
		w = r.applyFaceScalars(m, set)
		warnings = append(warnings, w...)
	}
	return m, warnings, nil
}

// faceSource decides where polygon boundaries come from: the face table if
// one decodes, the triangle stream grouped by size hints if those exist,
// and the anchor-change heuristic as the degraded last resort.
func (r *Reconstructor) faceSource(in Input, set *table.Set) ([][]uint32, []Warning, error) {
	var warnings []Warning
	if set != nil && set.Face != nil {
		fd, err := r.reader.DecodeFaces(set.Face)
		if err == nil {
			return fd.Verts, nil, nil
		}
		warnings = append(warnings, discarded("face", err))
	}
	if len(in.Triangles) == 0 {
		// A discarded face table with no stream to fall back on loses the
		// faces for good. An empty stream on its own is just a mesh with
		// no faces, possibly no entities at all.
		if len(warnings) > 0 {
			return nil, nil, ErrNoTopology
		}
		return nil, warnings, nil
	}
	if in.FaceSizes != nil {
		faces, err := fan.GroupWithSizes(in.Triangles, in.FaceSizes)
		if err != nil {
			return nil, nil, err
		}
		return faces, warnings, nil
	}
	warnings = append(warnings, Warning{
		Code:   WarnDegradedTriangulation,
		Entity: -1,
		Detail: "no face size hints, boundaries grouped heuristically",
	})
	return fan.Group(in.Triangles), warnings, nil
}

// applyEdgeTable transfers manifold and smooth flags onto the regrown edges,
// matching rows by vertex pair. Rows whose pair does not exist in the
// regrown topology become wire edges, preserving face-less edges of the
// source mesh.
func (r *Reconstructor) applyEdgeTable(m *core.Mesh, set *table.Set) []Warning {
	ed, err := r.reader.DecodeEdges(set.Edge)
	if err != nil {
		m.ClassifyManifold()
		return []Warning{discarded("edge", err)}
	}
	var warnings []Warning
	for _, e := range ed.ManifoldWarnings {
		warnings = append(warnings, Warning{
			Code:   WarnManifoldOutOfDomain,
			Entity: e,
			Detail: "manifold byte outside {0,1,255}, downgraded to unknown",
		})
	}
	m.EdgeAttrs = ed.Attrs
	for i, pair := range ed.Verts {
		a, b := core.VertexID(pair[0]), core.VertexID(pair[1])
		if int(a) >= len(m.Verts) || int(b) >= len(m.Verts) || a == b {
			warnings = append(warnings, Warning{
				Code:   WarnEdgeRowOutOfRange,
				Entity: i,
				Detail: "edge row references vertices outside the regrown mesh",
			})
			continue
		}
		e, ok := m.FindEdge(a, b)
		if !ok {
			e, _ = m.AddEdge(a, b)
		}
		m.Edges[e].Manifold = ed.Manifold[i]
		if ed.Smooth != nil {
			m.Edges[e].Smooth = ed.Smooth[i]
		}
	}
	return warnings
}

// applyLoopTable recovers per-loop UVs. Regrown loops are created one per
// face corner in face order, the same order the writer serialized, so the
// mapping is positional; a count mismatch means the loop table describes a
// different topology and the data is dropped.
func (r *Reconstructor) applyLoopTable(m *core.Mesh, set *table.Set) []Warning {
	ld, err := r.reader.DecodeLoops(set.Loop)
	if err != nil {
		return []Warning{discarded("loop", err)}
	}
	if len(ld.Records) != len(m.Loops) {
		return []Warning{{
			Code:   WarnLoopDataDiscarded,
			Entity: -1,
			Detail: "loop table count does not match regrown loop count",
		}}
	}
	m.LoopAttrs = ld.Attrs
	if ld.UVs != nil {
		m.HasUVs = true
		for i := range m.Loops {
			m.Loops[i].UV = ld.UVs[i]
		}
	}
	return nil
}

// applyFaceScalars transfers face normals and smooth flags when the face
// table supplied the boundaries, so counts are guaranteed to line up.
func (r *Reconstructor) applyFaceScalars(m *core.Mesh, set *table.Set) []Warning {
	fd, err := r.reader.DecodeFaces(set.Face)
	if err != nil || len(fd.Verts) != len(m.Faces) {
		return nil
	}
	m.FaceAttrs = fd.Attrs
	for i := range m.Faces {
		if fd.Normals != nil {
			m.Faces[i].Normal = fd.Normals[i]
		}
		if fd.Smooth != nil {
			m.Faces[i].Smooth = fd.Smooth[i]
		}
	}
	return nil
}

func discarded(tableName string, err error) Warning {
	return Warning{
		Code:   WarnTableDiscarded,
		Entity: -1,
		Detail: tableName + " table discarded: " + err.Error(),
	}
}

func maxIndex(faces [][]uint32) int {
	hi := -1
	for _, face := range faces {
		for _, v := range face {
			if int(v) > hi {
				hi = int(v)
			}
		}
	}
	return hi
}
