package bmesh

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meshforge/bmesh/core"
	"github.com/meshforge/bmesh/reconstruct"
	"github.com/meshforge/bmesh/testutil"
	"github.com/meshforge/bmesh/validate"
)

// requireIsomorphic compares two arenas index-independently: same vertex
// positions, same face vertex cycles up to rotation, same manifold
// classification and radial cardinality per vertex pair.
func requireIsomorphic(t *testing.T, want, got *core.Mesh) {
	t.Helper()
	require.Len(t, got.Verts, len(want.Verts))
	for i := range want.Verts {
		require.Equal(t, want.Verts[i].Position, got.Verts[i].Position, "vertex %d", i)
	}

	require.Len(t, got.Faces, len(want.Faces))
	for i := range want.Faces {
		require.True(t, sameCycle(want.Faces[i].Verts, got.Faces[i].Verts),
			"face %d: %v vs %v", i, want.Faces[i].Verts, got.Faces[i].Verts)
	}

	require.Len(t, got.Edges, len(want.Edges))
	for e := range want.Edges {
		pair := want.Edges[e].Verts
		ge, ok := got.FindEdge(pair[0], pair[1])
		require.True(t, ok, "edge %v missing", pair)
		require.Equal(t, want.Edges[e].Manifold, got.Edges[ge].Manifold, "edge %v manifold", pair)
		require.Len(t, got.RadialLoops(ge), len(want.RadialLoops(core.EdgeID(e))), "edge %v radial", pair)
	}
}

func sameCycle(a, b []core.VertexID) bool {
	if len(a) != len(b) {
		return false
	}
	n := len(a)
	for shift := 0; shift < n; shift++ {
		match := true
		for i := 0; i < n; i++ {
			if a[i] != b[(i+shift)%n] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		mesh *core.Mesh
	}{
		{name: "quad", mesh: testutil.Quad()},
		{name: "tri pair", mesh: testutil.TriPair()},
		{name: "grid", mesh: testutil.Grid(4, 3)},
		{name: "cube", mesh: testutil.Cube()},
		{name: "non-manifold fan", mesh: testutil.NonManifoldFan()},
		{name: "mixed ngons", mesh: testutil.MixedNgons()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := Encode(ctx, tt.mesh)
			require.NoError(t, err)
			require.Zero(t, len(enc.Triangles)%3)

			res, err := Decode(ctx, enc)
			require.NoError(t, err)
			require.Equal(t, reconstruct.StrategyFull, res.Strategy)
			require.Equal(t, validate.Valid, res.Report.Status(), "diagnostics: %v", res.Report.Diagnostics)
			requireIsomorphic(t, tt.mesh, res.Mesh)
		})
	}
}

func TestRoundTripEmptyMesh(t *testing.T) {
	ctx := context.Background()

	enc, err := Encode(ctx, core.NewMesh())
	require.NoError(t, err)
	require.Empty(t, enc.Positions)
	require.Empty(t, enc.Triangles)

	res, err := Decode(ctx, enc)
	require.NoError(t, err)
	require.Equal(t, reconstruct.StrategyImplicitOnly, res.Strategy)
	require.Equal(t, validate.Valid, res.Report.Status())
	require.Empty(t, res.Mesh.Verts)
	require.Empty(t, res.Mesh.Faces)
}

func TestRoundTripWithoutTables(t *testing.T) {
	ctx := context.Background()
	src := testutil.MixedNgons()

	enc, err := Encode(ctx, src, WithoutTables())
	require.NoError(t, err)
	require.Nil(t, enc.Tables)
	require.NotNil(t, enc.FaceSizes)

	res, err := Decode(ctx, enc)
	require.NoError(t, err)
	require.Equal(t, reconstruct.StrategyImplicitOnly, res.Strategy)
	require.Equal(t, validate.Valid, res.Report.Status())
	requireIsomorphic(t, src, res.Mesh)
}

func TestDecodeWithoutHintsIsDegraded(t *testing.T) {
	ctx := context.Background()
	src := testutil.Cube()

	enc, err := Encode(ctx, src, WithoutTables(), WithoutFaceSizes())
	require.NoError(t, err)
	require.Nil(t, enc.FaceSizes)

	res, err := Decode(ctx, enc)
	require.NoError(t, err)
	require.Equal(t, reconstruct.StrategyImplicitOnly, res.Strategy)
	require.NotEmpty(t, res.Warnings)
	require.Equal(t, reconstruct.WarnDegradedTriangulation, res.Warnings[0].Code)
	// A non-upgrading consumer still gets a valid triangulated surface.
	require.Equal(t, validate.Valid, res.Report.Status(), "diagnostics: %v", res.Report.Diagnostics)
}

func TestTriangleStreamLayout(t *testing.T) {
	ctx := context.Background()
	enc, err := Encode(ctx, testutil.Quad())
	require.NoError(t, err)

	// One quad, anchor 0: exactly the two fan triangles, in order.
	require.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, enc.Triangles)
	require.Equal(t, []uint32{4}, enc.FaceSizes)
	require.Len(t, enc.Positions, 4)
}

func TestEncodeAnchorConflict(t *testing.T) {
	ctx := context.Background()
	m := core.NewMesh()
	m.AddVertex([3]float32{0, 0, 0})
	m.AddVertex([3]float32{1, 0, 0})
	m.AddVertex([3]float32{0, 1, 0})
	_, err := m.AddFace(0, 1, 2)
	require.NoError(t, err)
	// Force the degenerate case directly: a face whose every corner holds
	// the previous anchor.
	m.Faces = append(m.Faces, core.Face{Verts: []core.VertexID{0, 0, 0}})

	_, err = Encode(ctx, m)
	require.ErrorIs(t, err, ErrAnchorConflict)
}

func TestDecodeMalformedStream(t *testing.T) {
	ctx := context.Background()
	enc, err := Encode(ctx, testutil.Quad(), WithoutTables())
	require.NoError(t, err)
	enc.FaceSizes = []uint32{5}

	_, err = Decode(ctx, enc)
	require.ErrorIs(t, err, ErrMalformedStream)
}

func TestDecodeStrictManifold(t *testing.T) {
	ctx := context.Background()
	enc, err := Encode(ctx, testutil.TriPair())
	require.NoError(t, err)
	enc.Tables.Edge.Manifold[0] = 99

	// Lenient default downgrades and warns.
	res, err := Decode(ctx, enc)
	require.NoError(t, err)
	require.Equal(t, reconstruct.StrategyFull, res.Strategy)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, core.ManifoldUnknown, res.Mesh.Edges[0].Manifold)

	// Strict discards the table and falls back to the implicit layer.
	res, err = Decode(ctx, enc, WithStrictManifold())
	require.NoError(t, err)
	require.Equal(t, reconstruct.StrategyPartial, res.Strategy)
	require.NotEmpty(t, res.Warnings)
	require.Equal(t, reconstruct.WarnTableDiscarded, res.Warnings[0].Code)
}

func TestEncodeAllDecodeAll(t *testing.T) {
	ctx := context.Background()
	meshes := []*core.Mesh{
		testutil.Quad(),
		testutil.Grid(3, 3),
		testutil.Cube(),
		testutil.NonManifoldFan(),
		testutil.MixedNgons(),
	}

	codec := New(WithConcurrency(2))
	encoded, err := codec.EncodeAll(ctx, meshes)
	require.NoError(t, err)
	require.Len(t, encoded, len(meshes))

	decoded, err := codec.DecodeAll(ctx, encoded)
	require.NoError(t, err)
	require.Len(t, decoded, len(meshes))
	for i := range meshes {
		requireIsomorphic(t, meshes[i], decoded[i].Mesh)
	}
}

func TestEncodeAllPropagatesError(t *testing.T) {
	ctx := context.Background()
	bad := core.NewMesh()
	bad.AddVertex([3]float32{0, 0, 0})
	bad.Faces = append(bad.Faces, core.Face{Verts: []core.VertexID{0, 0, 0}})
	bad.Faces = append(bad.Faces, core.Face{Verts: []core.VertexID{0, 0, 0}})

	_, err := New().EncodeAll(ctx, []*core.Mesh{testutil.Quad(), bad})
	require.ErrorIs(t, err, ErrAnchorConflict)
}
