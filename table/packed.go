package table

import (
	"encoding/binary"
	"math"
)

// Low-level little-endian field builders and parsers. The append style
// mirrors encoding/binary's Append* API; parsers fail on short or
// inconsistent buffers instead of truncating.

func appendU32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}

func appendVec3(buf []byte, v [3]float32) []byte {
	for _, c := range v {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(c))
	}
	return buf
}

func appendVec2(buf []byte, v [2]float32) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v[0]))
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v[1]))
}

func u32At(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i*4:])
}

func parseU32s(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = u32At(b, i)
	}
	return out
}

func parseVec3s(b []byte) [][3]float32 {
	out := make([][3]float32, len(b)/StrideVec3)
	for i := range out {
		for c := 0; c < 3; c++ {
			out[i][c] = math.Float32frombits(u32At(b, i*3+c))
		}
	}
	return out
}

func parseVec2s(b []byte) [][2]float32 {
	out := make([][2]float32, len(b)/StrideVec2)
	for i := range out {
		out[i][0] = math.Float32frombits(u32At(b, i*2))
		out[i][1] = math.Float32frombits(u32At(b, i*2+1))
	}
	return out
}

// packRagged flattens per-entity element lists into a packed array plus an
// offset array of length count+1, both already serialized little-endian.
// offset[i] is the start of entity i's slice, offset[count] the total.
func packRagged(lists [][]uint32) (packed, offsets []byte) {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	packed = make([]byte, 0, total*4)
	offsets = make([]byte, 0, (len(lists)+1)*4)
	pos := uint32(0)
	for _, l := range lists {
		offsets = appendU32(offsets, pos)
		for _, v := range l {
			packed = appendU32(packed, v)
		}
		pos += uint32(len(l))
	}
	offsets = appendU32(offsets, pos)
	return packed, offsets
}

// unpackRagged recovers per-entity slices from a packed/offset pair,
// validating the offset array completely: exact length, monotonically
// non-decreasing entries, and a final entry equal to the packed element
// count. Empty slices are valid.
func unpackRagged(packed, offsets []byte, count int, tableName, fieldName string) ([][]uint32, error) {
	if len(offsets) != (count+1)*4 {
		return nil, &ErrFieldSize{Table: tableName, Field: fieldName, Got: len(offsets), Want: (count + 1) * 4}
	}
	if len(packed)%4 != 0 {
		return nil, &ErrFieldSize{Table: tableName, Field: fieldName, Got: len(packed), Want: len(packed) - len(packed)%4}
	}
	elems := parseU32s(packed)
	offs := parseU32s(offsets)
	for i := 0; i < count; i++ {
		if offs[i] > offs[i+1] {
			return nil, &ErrMalformedOffsets{Table: tableName, Field: fieldName, Index: i + 1, Reason: "offsets decrease"}
		}
	}
	if int(offs[count]) != len(elems) {
		return nil, &ErrMalformedOffsets{
			Table: tableName, Field: fieldName, Index: count,
			Reason: "final offset does not match packed length",
		}
	}
	out := make([][]uint32, count)
	for i := 0; i < count; i++ {
		out[i] = elems[offs[i]:offs[i+1]]
	}
	return out, nil
}
