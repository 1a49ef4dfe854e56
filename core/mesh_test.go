package core

import (
	"errors"
	"testing"
)

func buildQuad(t *testing.T) *Mesh {
	t.Helper()
	m := NewMesh()
	for _, p := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		m.AddVertex(p)
	}
	if _, err := m.AddFace(0, 1, 2, 3); err != nil {
		t.Fatalf("AddFace: %v", err)
	}
	return m
}

func TestAddFaceLinksLoops(t *testing.T) {
	m := buildQuad(t)

	if len(m.Loops) != 4 {
		t.Fatalf("loops = %d, want 4", len(m.Loops))
	}
	face := m.Faces[0]
	l := face.Loops[0]
	for i := 0; i < 4; i++ {
		loop := m.Loops[l]
		if loop.Vert != face.Verts[i] {
			t.Errorf("corner %d: loop vert = %d, want %d", i, loop.Vert, face.Verts[i])
		}
		if m.Loops[loop.Next].Prev != l {
			t.Errorf("corner %d: prev(next) != self", i)
		}
		l = loop.Next
	}
	if l != face.Loops[0] {
		t.Errorf("next cycle does not close")
	}
}

func TestAddFaceRejectsDegenerate(t *testing.T) {
	m := NewMesh()
	m.AddVertex([3]float32{0, 0, 0})
	m.AddVertex([3]float32{1, 0, 0})
	m.AddVertex([3]float32{0, 1, 0})

	tests := []struct {
		name  string
		verts []VertexID
		want  error
	}{
		{name: "too short", verts: []VertexID{0, 1}, want: ErrFaceTooShort},
		{name: "repeated vertex", verts: []VertexID{0, 1, 0}, want: ErrRepeatedVertex},
		{name: "unknown vertex", verts: []VertexID{0, 1, 9}, want: ErrUnknownVertex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.AddFace(tt.verts...); !errors.Is(err, tt.want) {
				t.Errorf("AddFace(%v) = %v, want %v", tt.verts, err, tt.want)
			}
		})
	}
}

func TestAddEdgeFindOrCreate(t *testing.T) {
	m := NewMesh()
	a := m.AddVertex([3]float32{0, 0, 0})
	b := m.AddVertex([3]float32{1, 0, 0})

	e1, err := m.AddEdge(a, b)
	if err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	e2, err := m.AddEdge(b, a)
	if err != nil {
		t.Fatalf("AddEdge reversed: %v", err)
	}
	if e1 != e2 {
		t.Errorf("reversed pair created a second edge: %d != %d", e1, e2)
	}
	if _, err := m.AddEdge(a, a); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("self loop error = %v, want %v", err, ErrSelfLoop)
	}
	if len(m.Verts[a].Edges) != 1 || len(m.Verts[b].Edges) != 1 {
		t.Errorf("incident edge lists not populated once per endpoint")
	}
}

func TestRadialCycleGrowth(t *testing.T) {
	m := NewMesh()
	for _, p := range [][3]float32{{0, 0, 0}, {0, 0, 1}, {1, 0, 0}, {0, 1, 0}, {-1, 0, 0}} {
		m.AddVertex(p)
	}
	// Three faces share edge (0,1).
	for _, face := range [][]VertexID{{0, 1, 2}, {0, 1, 3}, {0, 1, 4}} {
		if _, err := m.AddFace(face...); err != nil {
			t.Fatalf("AddFace(%v): %v", face, err)
		}
	}

	e, ok := m.FindEdge(0, 1)
	if !ok {
		t.Fatal("shared edge not found")
	}
	radial := m.RadialLoops(e)
	if len(radial) != 3 {
		t.Fatalf("radial cycle length = %d, want 3", len(radial))
	}
	for _, l := range radial {
		if m.Loops[l].Edge != e {
			t.Errorf("loop %d in radial cycle references edge %d", l, m.Loops[l].Edge)
		}
		if m.Loops[m.Loops[l].RadialNext].RadialPrev != l {
			t.Errorf("loop %d: radial prev of radial next does not return", l)
		}
	}
	if len(m.Edges[e].Faces) != 3 {
		t.Errorf("adjacent faces = %d, want 3", len(m.Edges[e].Faces))
	}
}

func TestClassifyManifold(t *testing.T) {
	m := NewMesh()
	for _, p := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		m.AddVertex(p)
	}
	// Two triangles sharing edge (0,2) with consistent winding.
	if _, err := m.AddFace(0, 1, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddFace(0, 2, 3); err != nil {
		t.Fatal(err)
	}
	m.ClassifyManifold()

	shared, _ := m.FindEdge(0, 2)
	if got := m.Edges[shared].Manifold; got != Manifold {
		t.Errorf("shared edge manifold = %v, want %v", got, Manifold)
	}
	boundary, _ := m.FindEdge(0, 1)
	if got := m.Edges[boundary].Manifold; got != NonManifold {
		t.Errorf("boundary edge manifold = %v, want %v", got, NonManifold)
	}
}

func TestClassifyManifoldInconsistentWinding(t *testing.T) {
	m := NewMesh()
	for _, p := range [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}} {
		m.AddVertex(p)
	}
	// Both faces traverse edge (0,2) in the same direction.
	if _, err := m.AddFace(0, 2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := m.AddFace(0, 2, 3); err != nil {
		t.Fatal(err)
	}
	m.ClassifyManifold()

	shared, _ := m.FindEdge(0, 2)
	if got := m.Edges[shared].Manifold; got != NonManifold {
		t.Errorf("inconsistent winding classified %v, want %v", got, NonManifold)
	}
}

func TestRebuildEdgeIndex(t *testing.T) {
	m := NewMesh()
	m.AddVertex([3]float32{0, 0, 0})
	m.AddVertex([3]float32{1, 0, 0})
	m.Edges = []Edge{
		{Verts: [2]VertexID{0, 1}, Loop: InvalidLoop},
		{Verts: [2]VertexID{1, 0}, Loop: InvalidLoop},
	}

	dups := m.RebuildEdgeIndex()
	if len(dups) != 1 || dups[0] != 1 {
		t.Fatalf("duplicates = %v, want [1]", dups)
	}
	e, ok := m.FindEdge(0, 1)
	if !ok || e != 0 {
		t.Errorf("FindEdge = (%d, %v), want lower index 0", e, ok)
	}
}
