package bmesh

import (
	"log/slog"
	"runtime"

	"github.com/meshforge/bmesh/table"
)

type options struct {
	logger         *Logger
	tables         bool
	faceSizes      bool
	validate       bool
	strictManifold bool
	concurrency    int
	writerOptions  []func(*table.WriterOptions)
}

// Option configures Codec behavior for both directions.
type Option func(*options)

// WithLogger configures structured logging for operations.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithoutTables disables the explicit layer on encode. The output carries
// only the triangle stream plus face size hints, so decoders take the
// fallback path. Mostly useful for testing consumers of degraded payloads.
func WithoutTables() Option {
	return func(o *options) {
		o.tables = false
	}
}

// WithoutFaceSizes drops the per-face vertex-count hints from encoded
// output. Without them an implicit-only decode can only recover grouped
// triangles, not the original polygon boundaries.
func WithoutFaceSizes() Option {
	return func(o *options) {
		o.faceSizes = false
	}
}

// WithoutValidation skips the invariant check after decode. The returned
// report is nil.
func WithoutValidation() Option {
	return func(o *options) {
		o.validate = false
	}
}

// WithStrictManifold makes an out-of-domain manifold byte fatal for the
// edge table instead of downgrading the edge to unknown status.
func WithStrictManifold() Option {
	return func(o *options) {
		o.strictManifold = true
	}
}

// WithConcurrency bounds the number of meshes EncodeAll and DecodeAll
// process in parallel. Values below 1 fall back to GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithTableWriter forwards options to the explicit-layer writer, e.g. to
// drop optional fields from the output tables.
func WithTableWriter(optFns ...func(*table.WriterOptions)) Option {
	return func(o *options) {
		o.writerOptions = append(o.writerOptions, optFns...)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:      NoopLogger(),
		tables:      true,
		faceSizes:   true,
		validate:    true,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	return o
}
