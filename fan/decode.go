package fan

import "fmt"

// ErrFanStructure is returned by GroupWithSizes when the stream does not
// form the fans the size hints promise.
type ErrFanStructure struct {
	Face     int
	Triangle int
	Reason   string
}

func (e *ErrFanStructure) Error() string {
	return fmt.Sprintf("fan: face %d, triangle %d: %s", e.Face, e.Triangle, e.Reason)
}

// GroupWithSizes splits the triangle stream back into polygon vertex cycles
// using the out-of-band per-face vertex counts. This is the exact inverse
// of Encode for any valid stream: face i consumes sizes[i]-2 consecutive
// triangles sharing one anchor, and the fan's continuation chain
// reconstructs the original boundary including winding.
func GroupWithSizes(tris []Triangle, sizes []uint32) ([][]uint32, error) {
	faces := make([][]uint32, 0, len(sizes))
	pos := 0
	for fi, size := range sizes {
		if size < 3 {
			return nil, &ErrFanStructure{Face: fi, Triangle: pos, Reason: fmt.Sprintf("face size %d below 3", size)}
		}
		count := int(size) - 2
		if pos+count > len(tris) {
			return nil, &ErrFanStructure{Face: fi, Triangle: pos, Reason: "stream exhausted before face complete"}
		}
		anchor := tris[pos][0]
		verts := make([]uint32, 0, size)
		verts = append(verts, anchor, tris[pos][1], tris[pos][2])
		for k := 1; k < count; k++ {
			t := tris[pos+k]
			if t[0] != anchor {
				return nil, &ErrFanStructure{Face: fi, Triangle: pos + k, Reason: "anchor changes mid-fan"}
			}
			if t[1] != verts[len(verts)-1] {
				return nil, &ErrFanStructure{Face: fi, Triangle: pos + k, Reason: "fan continuation vertex mismatch"}
			}
			verts = append(verts, t[2])
		}
		faces = append(faces, verts)
		pos += count
	}
	if pos != len(tris) {
		return nil, &ErrFanStructure{Face: len(sizes), Triangle: pos, Reason: "trailing triangles after last face"}
	}
	return faces, nil
}

// Group splits the stream into faces with no size hints, starting a new
// face whenever the leading vertex changes. For meshes whose fans never
// reuse an anchor across non-consecutive positions this recovers the
// original polygons; in general it is a best-effort grouping and the
// caller must treat the result as a degraded, triangulation-level
// reconstruction.
func Group(tris []Triangle) [][]uint32 {
	var faces [][]uint32
	var current []uint32
	var prevAnchor uint32
	hasPrev := false
	for _, t := range tris {
		if !hasPrev || t[0] != prevAnchor {
			if current != nil {
				faces = append(faces, current)
			}
			current = []uint32{t[0], t[1], t[2]}
			prevAnchor = t[0]
			hasPrev = true
			continue
		}
		if !contains(current, t[2]) {
			current = append(current, t[2])
		}
	}
	if current != nil {
		faces = append(faces, current)
	}
	return faces
}

func contains(verts []uint32, v uint32) bool {
	for _, x := range verts {
		if x == v {
			return true
		}
	}
	return false
}
