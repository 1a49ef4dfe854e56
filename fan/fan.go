// Package fan linearizes polygon faces into an ordered triangle stream and
// recovers face groupings from such a stream.
//
// Each face is emitted as a triangle fan around one anchor vertex. The
// stream carries no face-boundary markers; instead the encoder guarantees
// that no two consecutive faces use the same anchor, so a decoder can infer
// boundaries from the leading vertex of each triangle. The encoder's anchor
// rule (minimum vertex index excluding the previous face's anchor) is
// deterministic but decoders never re-run it: they only rely on the
// anchors-differ invariant.
package fan

import "fmt"

// Triangle is one triangle of the implicit layer, anchor first, winding
// preserved from the source face.
type Triangle [3]uint32

// ErrAnchorConflict is returned when a face has no vertex that differs from
// the previous face's anchor. Emitting such a face would make the stream
// ambiguous, so the whole encode is refused.
type ErrAnchorConflict struct {
	Face   int
	Anchor uint32
}

func (e *ErrAnchorConflict) Error() string {
	return fmt.Sprintf("fan: face %d cannot avoid previous anchor %d", e.Face, e.Anchor)
}

// SelectAnchors picks one anchor corner per face, in traversal order,
// enforcing the no-repeat invariant. The returned slice holds the corner
// position of each face's anchor within its vertex sequence.
//
// The rule: the anchor is the minimum vertex index among the face's
// vertices that differs from the previous face's anchor vertex. The first
// face takes its plain minimum.
func SelectAnchors(faces [][]uint32) ([]int, error) {
	anchors := make([]int, len(faces))
	var prev uint32
	hasPrev := false
	for i, face := range faces {
		pos := -1
		for c, v := range face {
			if hasPrev && v == prev {
				continue
			}
			if pos < 0 || v < face[pos] {
				pos = c
			}
		}
		if pos < 0 {
			return nil, &ErrAnchorConflict{Face: i, Anchor: prev}
		}
		anchors[i] = pos
		prev = face[pos]
		hasPrev = true
	}
	return anchors, nil
}

// EncodeFace fans one face around the anchor at corner anchorPos, emitting
// n-2 triangles. Triangle k is (anchor, v[a+k+1], v[a+k+2]) with corner
// arithmetic mod n, so winding order is preserved.
func EncodeFace(face []uint32, anchorPos int) []Triangle {
	n := len(face)
	tris := make([]Triangle, 0, n-2)
	for k := 0; k < n-2; k++ {
		tris = append(tris, Triangle{
			face[anchorPos],
			face[(anchorPos+k+1)%n],
			face[(anchorPos+k+2)%n],
		})
	}
	return tris
}

// Encode produces the implicit-layer triangle stream for the given faces in
// traversal order. It fails atomically on an anchor conflict; no partial
// stream is returned.
func Encode(faces [][]uint32) ([]Triangle, error) {
	anchors, err := SelectAnchors(faces)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, face := range faces {
		total += len(face) - 2
	}
	stream := make([]Triangle, 0, total)
	for i, face := range faces {
		stream = append(stream, EncodeFace(face, anchors[i])...)
	}
	return stream, nil
}

// Flatten lays the stream out as the standard flat index buffer.
func Flatten(tris []Triangle) []uint32 {
	out := make([]uint32, 0, len(tris)*3)
	for _, t := range tris {
		out = append(out, t[0], t[1], t[2])
	}
	return out
}

// FromFlat reassembles triangles from a flat index buffer.
func FromFlat(indices []uint32) ([]Triangle, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("fan: index buffer length %d is not a multiple of 3", len(indices))
	}
	tris := make([]Triangle, len(indices)/3)
	for i := range tris {
		tris[i] = Triangle{indices[i*3], indices[i*3+1], indices[i*3+2]}
	}
	return tris, nil
}
