package fan

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncodeSingleQuad(t *testing.T) {
	tris, err := Encode([][]uint32{{0, 1, 2, 3}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []Triangle{{0, 1, 2}, {0, 2, 3}}
	if !reflect.DeepEqual(tris, want) {
		t.Errorf("stream = %v, want %v", tris, want)
	}
}

func TestFanCardinality(t *testing.T) {
	tests := []struct {
		name string
		face []uint32
		want int
	}{
		{name: "triangle", face: []uint32{0, 1, 2}, want: 1},
		{name: "quad", face: []uint32{0, 1, 2, 3}, want: 2},
		{name: "pentagon", face: []uint32{0, 1, 2, 3, 4}, want: 3},
		{name: "octagon", face: []uint32{0, 1, 2, 3, 4, 5, 6, 7}, want: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(EncodeFace(tt.face, 0)); got != tt.want {
				t.Errorf("triangles = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSelectAnchorsAvoidsPrevious(t *testing.T) {
	faces := [][]uint32{{0, 1, 2}, {0, 2, 3}}
	anchors, err := SelectAnchors(faces)
	if err != nil {
		t.Fatalf("SelectAnchors: %v", err)
	}
	if faces[0][anchors[0]] != 0 {
		t.Errorf("first anchor = %d, want plain minimum 0", faces[0][anchors[0]])
	}
	// Vertex 0 is excluded for the second face, so the alternate minimum 2
	// is chosen.
	if faces[1][anchors[1]] != 2 {
		t.Errorf("second anchor = %d, want 2", faces[1][anchors[1]])
	}
}

func TestSelectAnchorsConflict(t *testing.T) {
	_, err := SelectAnchors([][]uint32{{5, 6, 7}, {5, 5, 5}})
	var conflict *ErrAnchorConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want ErrAnchorConflict", err)
	}
	if conflict.Face != 1 || conflict.Anchor != 5 {
		t.Errorf("conflict = face %d anchor %d, want face 1 anchor 5", conflict.Face, conflict.Anchor)
	}
}

func TestEncodeAtomicOnConflict(t *testing.T) {
	tris, err := Encode([][]uint32{{0, 1, 2}, {0, 0, 0}})
	if err == nil {
		t.Fatal("Encode accepted an ambiguous stream")
	}
	if tris != nil {
		t.Errorf("partial stream returned on error: %v", tris)
	}
}

func TestEncodePreservesWinding(t *testing.T) {
	// Anchor at corner 1: the fan must still walk the boundary in order.
	tris := EncodeFace([]uint32{0, 2, 3}, 1)
	want := []Triangle{{2, 3, 0}}
	if !reflect.DeepEqual(tris, want) {
		t.Errorf("fan = %v, want %v", tris, want)
	}
}

func TestConsecutiveAnchorsDiffer(t *testing.T) {
	faces := [][]uint32{
		{0, 1, 2, 3},
		{0, 3, 4, 5},
		{3, 5, 6},
		{3, 6, 7, 8, 9},
	}
	anchors, err := SelectAnchors(faces)
	if err != nil {
		t.Fatalf("SelectAnchors: %v", err)
	}
	for i := 1; i < len(faces); i++ {
		prev := faces[i-1][anchors[i-1]]
		cur := faces[i][anchors[i]]
		if prev == cur {
			t.Errorf("faces %d and %d share anchor %d", i-1, i, cur)
		}
	}
}

func TestGroupWithSizesRoundTrip(t *testing.T) {
	faces := [][]uint32{
		{0, 1, 2, 3},
		{0, 3, 4, 5},
		{3, 5, 6},
		{3, 6, 7, 8, 9},
	}
	tris, err := Encode(faces)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	sizes := make([]uint32, len(faces))
	for i, f := range faces {
		sizes[i] = uint32(len(f))
	}

	got, err := GroupWithSizes(tris, sizes)
	if err != nil {
		t.Fatalf("GroupWithSizes: %v", err)
	}
	if len(got) != len(faces) {
		t.Fatalf("faces = %d, want %d", len(got), len(faces))
	}
	for i := range faces {
		if !sameCycle(got[i], faces[i]) {
			t.Errorf("face %d = %v, not a rotation of %v", i, got[i], faces[i])
		}
	}
}

func TestGroupWithSizesQuadHint(t *testing.T) {
	// One quad, not two triangles, must come back from the hinted decode.
	faces, err := GroupWithSizes([]Triangle{{0, 1, 2}, {0, 2, 3}}, []uint32{4})
	if err != nil {
		t.Fatalf("GroupWithSizes: %v", err)
	}
	if len(faces) != 1 || !reflect.DeepEqual(faces[0], []uint32{0, 1, 2, 3}) {
		t.Errorf("faces = %v, want [[0 1 2 3]]", faces)
	}
}

func TestGroupWithSizesMalformed(t *testing.T) {
	tests := []struct {
		name  string
		tris  []Triangle
		sizes []uint32
	}{
		{name: "size below 3", tris: []Triangle{{0, 1, 2}}, sizes: []uint32{2}},
		{name: "stream exhausted", tris: []Triangle{{0, 1, 2}}, sizes: []uint32{5}},
		{name: "anchor changes mid fan", tris: []Triangle{{0, 1, 2}, {9, 2, 3}}, sizes: []uint32{4}},
		{name: "continuation mismatch", tris: []Triangle{{0, 1, 2}, {0, 9, 3}}, sizes: []uint32{4}},
		{name: "trailing triangles", tris: []Triangle{{0, 1, 2}, {5, 6, 7}}, sizes: []uint32{3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GroupWithSizes(tt.tris, tt.sizes)
			var structural *ErrFanStructure
			if !errors.As(err, &structural) {
				t.Errorf("err = %v, want ErrFanStructure", err)
			}
		})
	}
}

func TestGroupHeuristic(t *testing.T) {
	faces := [][]uint32{
		{0, 1, 2, 3},
		{0, 3, 4, 5},
		{3, 5, 6},
	}
	tris, err := Encode(faces)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got := Group(tris)
	if len(got) != len(faces) {
		t.Fatalf("faces = %d, want %d", len(got), len(faces))
	}
	for i := range faces {
		if !sameCycle(got[i], faces[i]) {
			t.Errorf("face %d = %v, not a rotation of %v", i, got[i], faces[i])
		}
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	tris := []Triangle{{0, 1, 2}, {2, 3, 0}}
	back, err := FromFlat(Flatten(tris))
	if err != nil {
		t.Fatalf("FromFlat: %v", err)
	}
	if !reflect.DeepEqual(back, tris) {
		t.Errorf("round trip = %v, want %v", back, tris)
	}
	if _, err := FromFlat([]uint32{0, 1}); err == nil {
		t.Error("FromFlat accepted a buffer not divisible by 3")
	}
}

// sameCycle reports whether b is a rotation of a, same winding.
func sameCycle(a, b []uint32) bool {
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
