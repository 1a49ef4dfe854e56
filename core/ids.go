package core

// Entity identifiers are dense, zero-based indexes into the owning Mesh
// arena. Every inter-entity relation is expressed as a (type, index) pair;
// entities are never referenced by address, which keeps the cyclic loop and
// radial navigation free of lifetime hazards.

// VertexID indexes into Mesh.Verts.
type VertexID uint32

// EdgeID indexes into Mesh.Edges.
type EdgeID uint32

// LoopID indexes into Mesh.Loops.
type LoopID uint32

// FaceID indexes into Mesh.Faces.
type FaceID uint32

// Invalid sentinels. A navigation field holding one of these references
// nothing. Vertices are only ever navigation sources, never optional
// targets, so they need no sentinel.
const (
	InvalidEdge = ^EdgeID(0)
	InvalidLoop = ^LoopID(0)
	InvalidFace = ^FaceID(0)
)
