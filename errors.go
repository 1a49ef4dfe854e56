package bmesh

import (
	"errors"
	"fmt"

	"github.com/meshforge/bmesh/core"
	"github.com/meshforge/bmesh/fan"
	"github.com/meshforge/bmesh/reconstruct"
	"github.com/meshforge/bmesh/table"
)

var (
	// ErrAnchorConflict is returned when a face cannot take an anchor
	// distinct from the previous face's anchor. The encode is refused
	// whole; no partial stream is emitted.
	ErrAnchorConflict = errors.New("anchor conflict")
	// ErrMalformedTable is returned when an explicit table fails layout
	// validation and no fallback could absorb the loss.
	ErrMalformedTable = errors.New("malformed table")
	// ErrMalformedStream is returned when the triangle stream contradicts
	// the face size hints.
	ErrMalformedStream = errors.New("malformed triangle stream")
	// ErrDanglingIndex is returned when an index field references an
	// out-of-range entity; reconstruction cannot proceed.
	ErrDanglingIndex = errors.New("dangling index")
	// ErrInvalidMesh is returned when the input arena violates the
	// builder's structural requirements.
	ErrInvalidMesh = errors.New("invalid mesh")
	// ErrNoTopology is returned when a payload carries neither decodable
	// tables nor a triangle stream.
	ErrNoTopology = errors.New("no topology source")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var ac *fan.ErrAnchorConflict
	if errors.As(err, &ac) {
		return fmt.Errorf("%w: %w", ErrAnchorConflict, err)
	}
	var fs *fan.ErrFanStructure
	if errors.As(err, &fs) {
		return fmt.Errorf("%w: %w", ErrMalformedStream, err)
	}

	var mo *table.ErrMalformedOffsets
	if errors.As(err, &mo) {
		return fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}
	var sz *table.ErrFieldSize
	if errors.As(err, &sz) {
		return fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}
	var mb *table.ErrManifoldByte
	if errors.As(err, &mb) {
		return fmt.Errorf("%w: %w", ErrMalformedTable, err)
	}

	var di *reconstruct.ErrDanglingIndex
	if errors.As(err, &di) {
		return fmt.Errorf("%w: %w", ErrDanglingIndex, err)
	}
	if errors.Is(err, reconstruct.ErrNoTopology) || errors.Is(err, reconstruct.ErrNoGeometry) {
		return fmt.Errorf("%w: %w", ErrNoTopology, err)
	}

	switch {
	case errors.Is(err, core.ErrFaceTooShort),
		errors.Is(err, core.ErrRepeatedVertex),
		errors.Is(err, core.ErrUnknownVertex),
		errors.Is(err, core.ErrSelfLoop):
		return fmt.Errorf("%w: %w", ErrInvalidMesh, err)
	}

	return err
}
