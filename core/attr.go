package core

import "strings"

// AttrSet holds named per-entity attribute side-channels as opaque byte
// blobs, one blob per channel, stride implied by the channel. The codec
// carries these through encode/decode without interpreting them; the
// standard channels it does interpret (POSITION, NORMAL, _SMOOTH,
// TEXCOORD_n) live as typed fields on the entity records instead.
type AttrSet map[string][]byte

// Reserved channel names follow the host-ecosystem convention: uppercase
// names are standard channels, an underscore prefix marks
// application-defined data.
const (
	AttrNormal   = "NORMAL"
	AttrSmooth   = "_SMOOTH"
	AttrTexCoord = "TEXCOORD_0"
)

// IsReservedAttr reports whether name is a standard (uppercase, no prefix)
// channel name.
func IsReservedAttr(name string) bool {
	if name == "" || strings.HasPrefix(name, "_") {
		return false
	}
	return strings.ToUpper(name) == name
}

// IsApplicationAttr reports whether name is an application-defined channel.
func IsApplicationAttr(name string) bool {
	return strings.HasPrefix(name, "_")
}

// Clone returns a deep copy of the set. A nil set clones to nil.
func (s AttrSet) Clone() AttrSet {
	if s == nil {
		return nil
	}
	out := make(AttrSet, len(s))
	for name, blob := range s {
		b := make([]byte, len(blob))
		copy(b, blob)
		out[name] = b
	}
	return out
}
