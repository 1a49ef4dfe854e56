// Package bmesh preserves non-manifold polygon-mesh topology through a
// triangulated-mesh pipeline.
//
// A BMesh graph (vertices, edges, loops, faces with radial adjacency) is
// encoded into two layers. The implicit layer is an ordered triangle
// stream: every face becomes a triangle fan around an anchor vertex, and
// because consecutive faces never share an anchor the original face
// boundaries are recoverable from triangle order alone. The explicit layer
// is a set of binary tables carrying the complete graph, including the
// variable-length adjacency lists, as packed arrays with offset indices.
// Consumers that understand the tables reconstruct the original topology
// exactly; consumers that do not still receive a valid triangulated mesh.
//
// # Quick Start
//
//	ctx := context.Background()
//
//	m := core.NewMesh()
//	a := m.AddVertex([3]float32{0, 0, 0})
//	b := m.AddVertex([3]float32{1, 0, 0})
//	c := m.AddVertex([3]float32{1, 1, 0})
//	d := m.AddVertex([3]float32{0, 1, 0})
//	m.AddFace(a, b, c, d)
//	m.ClassifyManifold()
//
//	enc, _ := bmesh.Encode(ctx, m)
//	res, _ := bmesh.Decode(ctx, enc)
//	// res.Mesh is isomorphic to m; res.Report holds the invariant check.
//
// # Graceful Degradation
//
// Decoding probes which tables exist and picks one of three strategies:
// full (all tables present, graph loaded directly), partial (topology
// regrown from the triangle stream, enriched from surviving tables) and
// implicit-only. Without per-face size hints the implicit-only path can
// only recover grouped triangles, a documented degradation reported as a
// warning, never silently.
//
// # Concurrency
//
// Each mesh's arena is independent; EncodeAll and DecodeAll run meshes in
// parallel with a bounded worker group. Within one arena construction is
// strictly sequential.
package bmesh
