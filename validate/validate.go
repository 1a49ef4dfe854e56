// Package validate checks a completed arena against the topological
// invariants and reports anomalies without repairing anything. The caller
// decides whether to reject, warn, or hand the mesh to toolkit-specific
// repair outside this module.
package validate

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/meshforge/bmesh/core"
)

// Status classifies a validation outcome.
type Status int

const (
	// Valid means every invariant holds.
	Valid Status = iota
	// ValidWithWarnings means the graph is usable but carries advisory
	// findings, e.g. a confirmed manifold flag contradicted by adjacency.
	ValidWithWarnings
	// Invalid means at least one structural invariant is broken.
	Invalid
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case ValidWithWarnings:
		return "valid-with-warnings"
	case Invalid:
		return "invalid"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Class names the entity class a diagnostic refers to.
type Class string

const (
	ClassVertex Class = "vertex"
	ClassEdge   Class = "edge"
	ClassLoop   Class = "loop"
	ClassFace   Class = "face"
)

// Rule identifies the invariant a diagnostic reports against.
type Rule string

const (
	// RuleFaceTooShort fires for a face with fewer than three vertices.
	RuleFaceTooShort Rule = "face-too-short"
	// RuleFaceDuplicateVertex fires for a face whose vertex sequence
	// repeats an index.
	RuleFaceDuplicateVertex Rule = "face-duplicate-vertex"
	// RuleFaceParallelLength fires when a face's edge or loop sequence
	// length differs from its vertex count.
	RuleFaceParallelLength Rule = "face-parallel-length"
	// RuleDanglingIndex fires for any index field referencing an
	// out-of-range entity.
	RuleDanglingIndex Rule = "dangling-index"
	// RuleLoopCycleBroken fires when following next around a face does not
	// form a single cycle of the face's vertex count.
	RuleLoopCycleBroken Rule = "loop-cycle-broken"
	// RuleLoopCycleOrder fires when the loop cycle does not reproduce the
	// face's vertex order.
	RuleLoopCycleOrder Rule = "loop-cycle-order"
	// RuleRadialCycleBroken fires when the radial cycle of an edge does
	// not close, or prev is not the inverse of next.
	RuleRadialCycleBroken Rule = "radial-cycle-broken"
	// RuleRadialCardinality fires when an edge's radial cycle length does
	// not equal its adjacent-face count.
	RuleRadialCardinality Rule = "radial-cardinality"
	// RuleEdgeVertexUnreferenced fires when an edge endpoint is not
	// referenced by any loop around that edge.
	RuleEdgeVertexUnreferenced Rule = "edge-vertex-unreferenced"
	// RuleOrphanLoop fires for a loop no face cycle reaches.
	RuleOrphanLoop Rule = "orphan-loop"
	// RuleManifoldStale fires when a confirmed manifold classification
	// contradicts the edge's actual adjacency. Advisory.
	RuleManifoldStale Rule = "manifold-stale"
)

// Diagnostic is one finding: the entity it concerns and the rule violated.
type Diagnostic struct {
	Class   Class
	Index   int
	Rule    Rule
	Warning bool
	Detail  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %d: %s: %s", d.Class, d.Index, d.Rule, d.Detail)
}

// Report collects the findings of one validation pass.
type Report struct {
	Diagnostics []Diagnostic
}

// Status reduces the report to the three-way classification.
func (r *Report) Status() Status {
	status := Valid
	for _, d := range r.Diagnostics {
		if !d.Warning {
			return Invalid
		}
		status = ValidWithWarnings
	}
	return status
}

// Errors returns the non-advisory findings.
func (r *Report) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if !d.Warning {
			out = append(out, d)
		}
	}
	return out
}

func (r *Report) add(class Class, index int, rule Rule, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Class: class, Index: index, Rule: rule,
		Detail: fmt.Sprintf(format, args...),
	})
}

func (r *Report) warn(class Class, index int, rule Rule, format string, args ...any) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Class: class, Index: index, Rule: rule, Warning: true,
		Detail: fmt.Sprintf(format, args...),
	})
}

// Check validates every invariant over the arena and returns the report.
// The mesh is not modified.
func Check(m *core.Mesh) *Report {
	r := &Report{}
	checkRanges(m, r)
	if r.Status() == Invalid {
		// Navigation is index-based; walking cycles over dangling indices
		// would fault, so structural checks stop here.
		return r
	}
	visited := checkFaces(m, r)
	checkOrphans(m, r, visited)
	checkEdges(m, r)
	return r
}

// checkRanges verifies every index field before anything dereferences one.
func checkRanges(m *core.Mesh, r *Report) {
	nv, ne, nl, nf := len(m.Verts), len(m.Edges), len(m.Loops), len(m.Faces)
	for v := range m.Verts {
		for _, e := range m.Verts[v].Edges {
			if int(e) >= ne {
				r.add(ClassVertex, v, RuleDanglingIndex, "incident edge %d, %d edges", e, ne)
			}
		}
	}
	for e := range m.Edges {
		edge := &m.Edges[e]
		for _, v := range edge.Verts {
			if int(v) >= nv {
				r.add(ClassEdge, e, RuleDanglingIndex, "vertex %d, %d vertices", v, nv)
			}
		}
		for _, f := range edge.Faces {
			if int(f) >= nf {
				r.add(ClassEdge, e, RuleDanglingIndex, "adjacent face %d, %d faces", f, nf)
			}
		}
		if edge.Loop != core.InvalidLoop && int(edge.Loop) >= nl {
			r.add(ClassEdge, e, RuleDanglingIndex, "radial entry loop %d, %d loops", edge.Loop, nl)
		}
	}
	for l := range m.Loops {
		loop := &m.Loops[l]
		if int(loop.Vert) >= nv {
			r.add(ClassLoop, l, RuleDanglingIndex, "vertex %d, %d vertices", loop.Vert, nv)
		}
		if int(loop.Edge) >= ne {
			r.add(ClassLoop, l, RuleDanglingIndex, "edge %d, %d edges", loop.Edge, ne)
		}
		if int(loop.Face) >= nf {
			r.add(ClassLoop, l, RuleDanglingIndex, "face %d, %d faces", loop.Face, nf)
		}
		for _, n := range []core.LoopID{loop.Next, loop.Prev, loop.RadialNext, loop.RadialPrev} {
			if int(n) >= nl {
				r.add(ClassLoop, l, RuleDanglingIndex, "loop link %d, %d loops", n, nl)
			}
		}
	}
	for f := range m.Faces {
		face := &m.Faces[f]
		for _, v := range face.Verts {
			if int(v) >= nv {
				r.add(ClassFace, f, RuleDanglingIndex, "vertex %d, %d vertices", v, nv)
			}
		}
		for _, e := range face.Edges {
			if int(e) >= ne {
				r.add(ClassFace, f, RuleDanglingIndex, "edge %d, %d edges", e, ne)
			}
		}
		for _, l := range face.Loops {
			if int(l) >= nl {
				r.add(ClassFace, f, RuleDanglingIndex, "loop %d, %d loops", l, nl)
			}
		}
	}
}

// checkFaces verifies boundary shape and the face-local loop cycles, and
// returns the set of loops reached by any face cycle.
func checkFaces(m *core.Mesh, r *Report) *roaring.Bitmap {
	visited := roaring.New()
	seen := roaring.New()
	for f := range m.Faces {
		face := &m.Faces[f]
		n := len(face.Verts)
		if n < 3 {
			r.add(ClassFace, f, RuleFaceTooShort, "%d vertices", n)
			continue
		}
		seen.Clear()
		for _, v := range face.Verts {
			if seen.Contains(uint32(v)) {
				r.add(ClassFace, f, RuleFaceDuplicateVertex, "vertex %d repeats", v)
			}
			seen.Add(uint32(v))
		}
		if len(face.Edges) != n || len(face.Loops) != n {
			r.add(ClassFace, f, RuleFaceParallelLength,
				"%d vertices, %d edges, %d loops", n, len(face.Edges), len(face.Loops))
			continue
		}

		// Walk next around the face: one cycle, length n, vertex order
		// matching the boundary, prev the exact inverse.
		l := face.Loops[0]
		ok := true
		for i := 0; i < n; i++ {
			loop := &m.Loops[l]
			if l != face.Loops[i] {
				r.add(ClassFace, f, RuleLoopCycleBroken,
					"corner %d: walked loop %d, face lists loop %d", i, l, face.Loops[i])
				ok = false
				break
			}
			if loop.Face != core.FaceID(f) {
				r.add(ClassLoop, int(l), RuleLoopCycleBroken, "owned by face %d, reached from face %d", loop.Face, f)
				ok = false
				break
			}
			if loop.Vert != face.Verts[i] {
				r.add(ClassFace, f, RuleLoopCycleOrder,
					"corner %d: loop vertex %d, face vertex %d", i, loop.Vert, face.Verts[i])
				ok = false
				break
			}
			if m.Loops[loop.Next].Prev != l {
				r.add(ClassLoop, int(l), RuleLoopCycleBroken, "prev of next does not return")
				ok = false
				break
			}
			visited.Add(uint32(l))
			l = loop.Next
		}
		if ok && l != face.Loops[0] {
			r.add(ClassFace, f, RuleLoopCycleBroken, "cycle does not close after %d steps", n)
		}
	}
	return visited
}

func checkOrphans(m *core.Mesh, r *Report, visited *roaring.Bitmap) {
	for l := range m.Loops {
		if !visited.Contains(uint32(l)) {
			r.add(ClassLoop, l, RuleOrphanLoop, "not reached by any face cycle")
		}
	}
}

// checkEdges verifies radial cycles, endpoint coverage and manifold
// classification consistency.
func checkEdges(m *core.Mesh, r *Report) {
	radial := roaring.New()
	for e := range m.Edges {
		edge := &m.Edges[e]
		if edge.Loop == core.InvalidLoop {
			if len(edge.Faces) != 0 {
				r.add(ClassEdge, e, RuleRadialCardinality,
					"%d adjacent faces but no radial cycle", len(edge.Faces))
			}
			continue
		}

		radial.Clear()
		length := 0
		broken := false
		l := edge.Loop
		for {
			if radial.Contains(uint32(l)) {
				r.add(ClassEdge, e, RuleRadialCycleBroken, "loop %d revisited before cycle closes", l)
				broken = true
				break
			}
			radial.Add(uint32(l))
			length++
			loop := &m.Loops[l]
			if loop.Edge != core.EdgeID(e) {
				r.add(ClassLoop, int(l), RuleRadialCycleBroken, "references edge %d, reached from edge %d", loop.Edge, e)
				broken = true
				break
			}
			if m.Loops[loop.RadialNext].RadialPrev != l {
				r.add(ClassLoop, int(l), RuleRadialCycleBroken, "radial prev of radial next does not return")
				broken = true
				break
			}
			l = loop.RadialNext
			if l == edge.Loop {
				break
			}
			if length > len(m.Loops) {
				r.add(ClassEdge, e, RuleRadialCycleBroken, "cycle exceeds loop count")
				broken = true
				break
			}
		}
		if broken {
			continue
		}
		if length != len(edge.Faces) {
			r.add(ClassEdge, e, RuleRadialCardinality,
				"radial cycle length %d, %d adjacent faces", length, len(edge.Faces))
		}

		checkEndpoints(m, r, e, radial)
		checkManifold(m, r, e, length)
	}
}

// checkEndpoints requires both edge endpoints to be referenced by a loop
// around the edge, counting each loop's corner vertex and its successor
// within the face.
func checkEndpoints(m *core.Mesh, r *Report, e int, radial *roaring.Bitmap) {
	edge := &m.Edges[e]
	found := [2]bool{}
	it := radial.Iterator()
	for it.HasNext() {
		l := core.LoopID(it.Next())
		for _, v := range [2]core.VertexID{m.Loops[l].Vert, m.Loops[m.Loops[l].Next].Vert} {
			if v == edge.Verts[0] {
				found[0] = true
			}
			if v == edge.Verts[1] {
				found[1] = true
			}
		}
	}
	for i, ok := range found {
		if !ok {
			r.add(ClassEdge, e, RuleEdgeVertexUnreferenced,
				"vertex %d not referenced by any radial loop", edge.Verts[i])
		}
	}
}

// checkManifold compares the stored classification against the adjacency it
// claims to summarize. Unknown asserts nothing, so it never fires; a stale
// confirmed value is advisory, not structural.
func checkManifold(m *core.Mesh, r *Report, e, radialLen int) {
	edge := &m.Edges[e]
	switch edge.Manifold {
	case core.Manifold:
		if len(edge.Faces) != 2 || radialLen != 2 {
			r.warn(ClassEdge, e, RuleManifoldStale,
				"confirmed manifold with %d adjacent faces", len(edge.Faces))
			return
		}
		l1 := edge.Loop
		l2 := m.Loops[l1].RadialNext
		if m.Loops[l1].Vert == m.Loops[l2].Vert {
			r.warn(ClassEdge, e, RuleManifoldStale,
				"confirmed manifold but both faces traverse the edge in the same direction")
		}
	case core.NonManifold:
		if len(edge.Faces) == 2 {
			l1 := edge.Loop
			l2 := m.Loops[l1].RadialNext
			if m.Loops[l1].Vert != m.Loops[l2].Vert {
				r.warn(ClassEdge, e, RuleManifoldStale,
					"confirmed non-manifold but adjacency is two consistently oriented faces")
			}
		}
	case core.ManifoldUnknown:
	}
}
