// Package testutil provides deterministic mesh fixtures shared by the
// package tests. Every fixture builds the same arena on every call; builder
// errors are programming errors in the fixture itself and panic.
package testutil

import (
	"fmt"

	"github.com/meshforge/bmesh/core"
)

func mustFace(m *core.Mesh, verts ...core.VertexID) core.FaceID {
	f, err := m.AddFace(verts...)
	if err != nil {
		panic(fmt.Sprintf("testutil: fixture face %v: %v", verts, err))
	}
	return f
}

// Quad builds a single planar quad face [0,1,2,3] in the XY plane.
func Quad() *core.Mesh {
	m := core.NewMesh()
	a := m.AddVertex([3]float32{0, 0, 0})
	b := m.AddVertex([3]float32{1, 0, 0})
	c := m.AddVertex([3]float32{1, 1, 0})
	d := m.AddVertex([3]float32{0, 1, 0})
	mustFace(m, a, b, c, d)
	m.ClassifyManifold()
	return m
}

// TriPair builds two triangles sharing the edge (0,2): [0,1,2] and [0,2,3].
func TriPair() *core.Mesh {
	m := core.NewMesh()
	a := m.AddVertex([3]float32{0, 0, 0})
	b := m.AddVertex([3]float32{1, 0, 0})
	c := m.AddVertex([3]float32{1, 1, 0})
	d := m.AddVertex([3]float32{0, 1, 0})
	mustFace(m, a, b, c)
	mustFace(m, a, c, d)
	m.ClassifyManifold()
	return m
}

// Grid builds a w x h quad grid in the XY plane: (w+1)*(h+1) vertices and
// w*h quad faces, all interior edges manifold.
func Grid(w, h int) *core.Mesh {
	m := core.NewMesh()
	cols := w + 1
	for y := 0; y <= h; y++ {
		for x := 0; x <= w; x++ {
			m.AddVertex([3]float32{float32(x), float32(y), 0})
		}
	}
	at := func(x, y int) core.VertexID { return core.VertexID(y*cols + x) }
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mustFace(m, at(x, y), at(x+1, y), at(x+1, y+1), at(x, y+1))
		}
	}
	m.ClassifyManifold()
	return m
}

// Cube builds a closed axis-aligned cube of six quad faces with outward
// winding. Every edge is manifold with exactly two adjacent faces.
func Cube() *core.Mesh {
	m := core.NewMesh()
	var v [8]core.VertexID
	for i := 0; i < 8; i++ {
		v[i] = m.AddVertex([3]float32{
			float32(i & 1),
			float32(i >> 1 & 1),
			float32(i >> 2 & 1),
		})
	}
	mustFace(m, v[0], v[2], v[3], v[1]) // z = 0
	mustFace(m, v[4], v[5], v[7], v[6]) // z = 1
	mustFace(m, v[0], v[1], v[5], v[4]) // y = 0
	mustFace(m, v[2], v[6], v[7], v[3]) // y = 1
	mustFace(m, v[0], v[4], v[6], v[2]) // x = 0
	mustFace(m, v[1], v[3], v[7], v[5]) // x = 1
	m.ClassifyManifold()
	return m
}

// NonManifoldFan builds three triangles sharing the single edge (0,1): a
// book spine. The shared edge has adjacent-face count 3 and a radial cycle
// of length 3.
func NonManifoldFan() *core.Mesh {
	m := core.NewMesh()
	a := m.AddVertex([3]float32{0, 0, 0})
	b := m.AddVertex([3]float32{0, 0, 1})
	c := m.AddVertex([3]float32{1, 0, 0})
	d := m.AddVertex([3]float32{0, 1, 0})
	e := m.AddVertex([3]float32{-1, 0, 0})
	mustFace(m, a, b, c)
	mustFace(m, a, b, d)
	mustFace(m, a, b, e)
	m.ClassifyManifold()
	return m
}

// MixedNgons builds a mesh with a triangle, a quad and a pentagon in a
// strip, exercising varying fan lengths and anchor alternation.
func MixedNgons() *core.Mesh {
	m := core.NewMesh()
	for i := 0; i < 10; i++ {
		m.AddVertex([3]float32{float32(i), float32(i % 3), 0})
	}
	mustFace(m, 0, 1, 2)
	mustFace(m, 1, 3, 4, 2)
	mustFace(m, 3, 5, 6, 7, 4)
	m.ClassifyManifold()
	return m
}
