// Package reconstruct rebuilds a complete BMesh arena from whatever layers a
// decoded payload carries.
//
// Three strategies cover the possible inputs. With all four explicit tables
// present the graph is loaded directly and only reverse adjacency needs
// back-filling. With some tables present the topology is regrown from the
// triangle stream and enriched from the tables that survived. With no tables
// at all only the implicit layer remains, and without per-face size hints
// the result is a documented degradation: the triangulation is recovered,
// the original polygon boundaries are not.
//
// A table that fails to decode is discarded and its entity class shifts to
// the fallback path when the triangle stream is available; a dangling index
// across tables is fatal because every navigation step is index-based.
package reconstruct

import (
	"errors"
	"fmt"

	"github.com/meshforge/bmesh/core"
	"github.com/meshforge/bmesh/fan"
	"github.com/meshforge/bmesh/table"
)

// Strategy identifies which reconstruction path produced a result.
type Strategy int

const (
	// StrategyFull loads all four explicit tables directly.
	StrategyFull Strategy = iota
	// StrategyPartial regrows topology from the triangle stream and
	// enriches it from the tables that are present and well-formed.
	StrategyPartial
	// StrategyImplicitOnly has nothing but the triangle stream.
	StrategyImplicitOnly
)

func (s Strategy) String() string {
	switch s {
	case StrategyFull:
		return "full"
	case StrategyPartial:
		return "partial"
	case StrategyImplicitOnly:
		return "implicit-only"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// WarningCode classifies a non-fatal reconstruction anomaly.
type WarningCode int

const (
	// WarnDegradedTriangulation marks a fallback reconstruction without
	// face size hints: faces are the grouped triangles, not the original
	// polygons.
	WarnDegradedTriangulation WarningCode = iota
	// WarnTableDiscarded marks an explicit table dropped because it failed
	// to decode; its entity class fell back to the implicit path.
	WarnTableDiscarded
	// WarnManifoldOutOfDomain marks an edge whose manifold byte was outside
	// {0,1,255} and was downgraded to unknown.
	WarnManifoldOutOfDomain
	// WarnDuplicateEdge marks an edge record connecting a vertex pair
	// already claimed by a lower-indexed record.
	WarnDuplicateEdge
	// WarnEdgeRowOutOfRange marks an edge table row whose vertex indices
	// do not exist in the regrown mesh; the row is skipped.
	WarnEdgeRowOutOfRange
	// WarnLoopDataDiscarded marks per-loop data (UVs, attributes) that
	// could not be mapped onto regrown loops.
	WarnLoopDataDiscarded
)

// Warning is a non-fatal anomaly encountered during reconstruction. Entity
// is the index of the affected record, or -1 when the warning is not tied
// to one entity.
type Warning struct {
	Code   WarningCode
	Entity int
	Detail string
}

// Result is a completed reconstruction: the arena, the strategy that built
// it and any warnings accumulated on the way.
type Result struct {
	Mesh     *core.Mesh
	Strategy Strategy
	Warnings []Warning
}

// Input is everything a decoded payload can offer the reconstructor. Tables
// may be nil or partial; Triangles may be empty when the explicit layer is
// complete; FaceSizes is the optional out-of-band per-face vertex count.
type Input struct {
	Positions [][3]float32
	Triangles []fan.Triangle
	FaceSizes []uint32
	Tables    *table.Set
}

var (
	// ErrNoGeometry is returned when neither a vertex table nor primary
	// positions exist for the vertices the faces reference.
	ErrNoGeometry = errors.New("reconstruct: no vertex positions available")
	// ErrNoTopology is returned when the face table failed to decode and
	// there is no triangle stream to fall back on. An empty stream with no
	// tables is not an error; it reconstructs as an empty mesh.
	ErrNoTopology = errors.New("reconstruct: no topology source available")
)

// ErrDanglingIndex reports an index field referencing an out-of-range
// entity. Navigation is index-based, so this is fatal for the graph.
type ErrDanglingIndex struct {
	Table  string
	Field  string
	Entity int
	Index  uint32
	Limit  int
}

func (e *ErrDanglingIndex) Error() string {
	return fmt.Sprintf("reconstruct: table %s: field %s: entity %d references %d, limit %d",
		e.Table, e.Field, e.Entity, e.Index, e.Limit)
}

// Options configures a Reconstructor.
type Options struct {
	// Reader decodes explicit tables. Defaults to a lenient reader.
	Reader *table.Reader
}

// Reconstructor rebuilds arenas from decoded payloads. It is stateless and
// safe for concurrent use across independent inputs.
type Reconstructor struct {
	reader *table.Reader
}

// New creates a Reconstructor.
func New(optFns ...func(*Options)) *Reconstructor {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Reader == nil {
		opts.Reader = table.NewReader()
	}
	return &Reconstructor{reader: opts.Reader}
}

// WithReader substitutes the table reader, e.g. one constructed with
// table.WithStrictManifold.
func WithReader(r *table.Reader) func(*Options) {
	return func(o *Options) { o.Reader = r }
}

// Reconstruct builds the arena from in, selecting the strategy by probing
// which tables are present and decodable.
func (r *Reconstructor) Reconstruct(in Input) (*Result, error) {
	set := in.Tables
	if set.IsEmpty() {
		m, warnings, err := r.regrow(in, nil)
		if err != nil {
			return nil, err
		}
		return &Result{Mesh: m, Strategy: StrategyImplicitOnly, Warnings: warnings}, nil
	}

	if set.Complete() {
		res, err := r.loadExplicit(set)
		if err == nil {
			return res, nil
		}
		var dangling *ErrDanglingIndex
		if errors.As(err, &dangling) || len(in.Triangles) == 0 {
			return nil, err
		}
		// A malformed table with an intact implicit layer degrades to the
		// partial path instead of failing the whole decode.
		m, warnings, rerr := r.regrow(in, set)
		if rerr != nil {
			return nil, errors.Join(err, rerr)
		}
		warnings = append([]Warning{{
			Code:   WarnTableDiscarded,
			Entity: -1,
			Detail: err.Error(),
		}}, warnings...)
		return &Result{Mesh: m, Strategy: StrategyPartial, Warnings: warnings}, nil
	}

	m, warnings, err := r.regrow(in, set)
	if err != nil {
		return nil, err
	}
	return &Result{Mesh: m, Strategy: StrategyPartial, Warnings: warnings}, nil
}
